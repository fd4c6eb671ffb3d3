package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/catalog"
	"github.com/plumechat/plume/internal/provider"
	"github.com/plumechat/plume/internal/store"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the configured key",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open()
		if err != nil {
			log.Fatalf("Failed to open credential store: %v", err)
		}

		apiKey, ok, err := st.Get(store.KeyAPIKey)
		if err != nil {
			log.Fatalf("Failed to read credential store: %v", err)
		}
		if !ok || apiKey == "" {
			log.Fatalf("No API key configured, run 'plume setup' first")
		}

		client := provider.NewClient(apiKey)
		models, err := catalog.Refresh(context.Background(), client)
		if err != nil {
			log.Fatalf("Failed to list models: %v", err)
		}

		selected, _, _ := st.Get(store.KeySelectedModel)
		for _, m := range models {
			marker := " "
			if m.ID == selected {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, m.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
