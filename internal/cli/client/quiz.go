package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// QuizCmd creates the quiz command.
func QuizCmd() *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "quiz <phase>",
		Short: "Generate a practice test",
		Long:  "Generates a practice test for a curriculum phase (M1, M2, M3, MCE, LCE). Pass --week to target a specific week.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runQuiz(cmd, args[0], week, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&week, "week", "w", 0, "Curriculum week to test on")

	return cmd
}

func runQuiz(cmd *cobra.Command, phase string, week int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("create a practice test for %s", phase)
	if week > 0 {
		message = fmt.Sprintf("create a practice test for %s week %d", phase, week)
	}

	resp, err := api.Post("/api/chat", ChatRequest{Message: message})
	if err != nil {
		return fmt.Errorf("quiz generation failed: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(resp.Data, &chatResp); err != nil {
		return fmt.Errorf("failed to parse quiz response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(chatResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(chatResp.Reply)
	return nil
}
