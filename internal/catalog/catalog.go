// Package catalog holds the selection logic over the models a key can
// access: the provider may repeat entries across pages, so the list is
// deduplicated before display, and a previous selection survives a
// refresh only if it is still offered.
package catalog

import (
	"context"
	"errors"

	"github.com/plumechat/plume/internal/provider"
)

// ErrEmptyCatalog is a contract violation: callers must not ask for a
// default selection out of an empty catalog.
var ErrEmptyCatalog = errors.New("model catalog is empty")

// Lister is the slice of the provider client the catalog needs.
type Lister interface {
	ListModels(ctx context.Context) ([]provider.Model, error)
}

// Dedup drops later duplicates by ID, keeping the first occurrence.
// Field differences between duplicates are ignored; first wins.
// Running Dedup twice yields the same sequence as running it once.
func Dedup(models []provider.Model) []provider.Model {
	seen := make(map[string]bool, len(models))
	unique := make([]provider.Model, 0, len(models))
	for _, m := range models {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		unique = append(unique, m)
	}
	return unique
}

// Refresh fetches the model list and deduplicates it.
func Refresh(ctx context.Context, client Lister) ([]provider.Model, error) {
	models, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return Dedup(models), nil
}

// SelectDefault returns previouslySelected if it is still in the
// catalog, otherwise the first entry. The catalog must not be empty.
func SelectDefault(previouslySelected string, models []provider.Model) (string, error) {
	if len(models) == 0 {
		return "", ErrEmptyCatalog
	}
	for _, m := range models {
		if m.ID == previouslySelected {
			return previouslySelected, nil
		}
	}
	return models[0].ID, nil
}
