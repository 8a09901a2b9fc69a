package main

import (
	"fmt"
	"os"

	"github.com/spartanmed/medchat/internal/cli"
	"github.com/spartanmed/medchat/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medchat",
		Short: "Medchat CLI - CHM curriculum assistant",
		Long: `Medchat CLI talks to the curriculum assistant API.

Environment variables:
  MEDCHAT_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.QuizCmd())
	rootCmd.AddCommand(client.CurriculumCmd())
	rootCmd.AddCommand(client.MaterialCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
