package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plumechat/plume/internal/config"
	"github.com/plumechat/plume/internal/provider"
	"github.com/plumechat/plume/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and stream the answer",
	Long:  `Send one question to the configured model and print the reply as it streams in, without entering the chat UI.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open()
		if err != nil {
			log.Fatalf("Failed to open credential store: %v", err)
		}

		sess, err := config.NewGate(st).Session()
		if err != nil {
			log.Fatalf("Not configured, run 'plume setup' first")
		}

		question := strings.Join(args, " ")
		client := provider.NewClient(sess.APIKey)
		history := []provider.ChatMessage{
			{Role: provider.RoleUser, Content: question},
		}

		_, err = client.SendMessageStream(context.Background(), sess.ModelID, history, func(delta string) {
			fmt.Print(delta)
		})
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
