// Package config derives the app's configuration state from the
// credential store: the app is configured once both an API key and a
// selected model are present, and the chat screen refuses to open
// until then.
package config

import (
	"errors"
	"fmt"

	"github.com/plumechat/plume/internal/store"
)

// ErrNotConfigured means the chat session cannot start because the API
// key or the selected model is missing.
var ErrNotConfigured = errors.New("api key and model are not configured")

// Gate recomputes "configured" from the store on demand. There is no
// reactive subscription: callers recompute after every credential
// mutation. This process is the only writer, so staleness caused by an
// external mutation is out of scope.
type Gate struct {
	store      *store.Store
	configured bool
}

// NewGate creates a gate over the given store.
func NewGate(s *store.Store) *Gate {
	return &Gate{store: s}
}

// Recompute reads both credentials and updates the cached value.
// A storage failure is an error, never a silent "not configured".
func (g *Gate) Recompute() (bool, error) {
	key, _, err := g.store.Get(store.KeyAPIKey)
	if err != nil {
		return false, fmt.Errorf("failed to read api key: %w", err)
	}
	model, _, err := g.store.Get(store.KeySelectedModel)
	if err != nil {
		return false, fmt.Errorf("failed to read selected model: %w", err)
	}

	g.configured = key != "" && model != ""
	return g.configured, nil
}

// IsConfigured returns the value from the last Recompute.
func (g *Gate) IsConfigured() bool {
	return g.configured
}

// Session is the exact parameter set the configuration flow hands to a
// chat session.
type Session struct {
	APIKey  string
	ModelID string
}

// Session reads both credentials and returns them as session
// parameters, failing with ErrNotConfigured when either is absent or
// empty.
func (g *Gate) Session() (Session, error) {
	key, _, err := g.store.Get(store.KeyAPIKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read api key: %w", err)
	}
	model, _, err := g.store.Get(store.KeySelectedModel)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read selected model: %w", err)
	}

	if key == "" || model == "" {
		return Session{}, ErrNotConfigured
	}
	return Session{APIKey: key, ModelID: model}, nil
}
