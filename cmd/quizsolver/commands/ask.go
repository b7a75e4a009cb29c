package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"quizsolver/lib/configutil"
	"quizsolver/lib/openrouter"
	"quizsolver/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

// free-form prompt for the interactive helper, no structured reply format
// since nothing parses it
func askPrompt(question string) string {
	return fmt.Sprintf(`You are helping with a pub quiz question. Analyze this question and provide the best answer.

Question: %s

Please respond with:
1. Your answer (be specific and concise)
Return nothing else, just the answers`, question)
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Interactively answers pasted quiz questions, one per line.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		llm := openrouter.NewClient(openrouter.ClientOptions{
			BaseUrl: cfg.BaseUrl,
			ApiKey:  cfg.ApiKey,
			Model:   cfg.Model,
		})

		fmt.Println("Paste a quiz question and press enter. Type 'exit' to quit.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" || question == "q" {
				return
			}

			reply, err := llm.Ask(ctx, askPrompt(question))
			if err != nil {
				fmt.Fprintln(os.Stderr, "query failed:", err)
				continue
			}
			fmt.Println(reply)
		}
	},
}
