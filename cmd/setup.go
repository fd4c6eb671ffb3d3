package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/catalog"
	"github.com/plumechat/plume/internal/provider"
	"github.com/plumechat/plume/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the API key and default model",
	Long:  `Prompt for an API key, validate it against the provider, and pick the model new chats will use.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open()
		if err != nil {
			log.Fatalf("Failed to open credential store: %v", err)
		}

		current, _, err := st.Get(store.KeyAPIKey)
		if err != nil {
			log.Fatalf("Failed to read credential store: %v", err)
		}

		keyPrompt := promptui.Prompt{
			Label:   "API Key",
			Default: current,
			Mask:    '*',
		}
		apiKey, err := keyPrompt.Run()
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		client := provider.NewClient(apiKey)
		models, err := catalog.Refresh(context.Background(), client)
		if err != nil {
			log.Fatalf("Key validation failed: %v", err)
		}

		if err := st.Set(store.KeyAPIKey, apiKey); err != nil {
			log.Fatalf("Failed to save key: %v", err)
		}

		names := make([]string, len(models))
		for i, m := range models {
			names[i] = m.DisplayName
		}
		modelPrompt := promptui.Select{
			Label: "Select model",
			Items: names,
		}
		idx, _, err := modelPrompt.Run()
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if err := st.Set(store.KeySelectedModel, models[idx].ID); err != nil {
			log.Fatalf("Failed to save model: %v", err)
		}

		fmt.Printf("Configured: %s\n", models[idx].ID)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
