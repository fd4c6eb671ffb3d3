package cmd

import (
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored key and model",
	Run: func(cmd *cobra.Command, args []string) {
		confirmPrompt := promptui.Prompt{
			Label:     "Delete the stored API key and model selection? (y/N)",
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Reset cancelled")
			return
		}

		st, err := store.Open()
		if err != nil {
			log.Fatalf("Failed to open credential store: %v", err)
		}
		if err := st.Clear(); err != nil {
			log.Fatalf("Failed to clear credential store: %v", err)
		}

		fmt.Println("Configuration cleared")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
