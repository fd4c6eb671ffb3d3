package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/config"
	"github.com/plumechat/plume/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the stored configuration",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration status",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open()
		if err != nil {
			log.Fatalf("Failed to open credential store: %v", err)
		}

		apiKey, hasKey, err := st.Get(store.KeyAPIKey)
		if err != nil {
			log.Fatalf("Failed to read credential store: %v", err)
		}
		model, hasModel, err := st.Get(store.KeySelectedModel)
		if err != nil {
			log.Fatalf("Failed to read credential store: %v", err)
		}

		fmt.Printf("API Key: %s\n", maskKey(apiKey, hasKey))
		if hasModel && model != "" {
			fmt.Printf("Model: %s\n", model)
		} else {
			fmt.Println("Model: not set")
		}

		gate := config.NewGate(st)
		configured, err := gate.Recompute()
		if err != nil {
			log.Fatalf("Failed to evaluate configuration: %v", err)
		}
		if configured {
			fmt.Println("Status: ready")
		} else {
			fmt.Println("Status: not configured")
		}
	},
}

// maskKey never prints the key itself, only enough to recognize it.
func maskKey(key string, set bool) string {
	if !set || key == "" {
		return "not set"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
