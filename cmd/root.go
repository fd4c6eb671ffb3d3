package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "A terminal chat client for Mistral models",
	Long:  `Plume is a terminal chat client: configure an API key once, pick a model, and talk.`,
	Run: func(cmd *cobra.Command, args []string) {
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}
