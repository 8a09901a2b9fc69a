package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CurriculumWeek represents one curriculum week entry.
type CurriculumWeek struct {
	Phase  string   `json:"phase"`
	Week   int      `json:"week"`
	Topic  string   `json:"topic"`
	Themes []string `json:"themes,omitempty"`
}

// CurriculumCmd creates the curriculum command.
func CurriculumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curriculum <phase>",
		Short: "List the weeks of a curriculum phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runCurriculum(cmd, args[0], outputJSON)
		},
	}
}

func runCurriculum(cmd *cobra.Command, phase string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/curriculum/" + phase)
	if err != nil {
		return fmt.Errorf("failed to fetch curriculum: %w", err)
	}

	var weeks []CurriculumWeek
	if err := json.Unmarshal(resp.Data, &weeks); err != nil {
		return fmt.Errorf("failed to parse curriculum: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(weeks, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(weeks) == 0 {
		fmt.Printf("No weeks defined for %s.\n", strings.ToUpper(phase))
		return nil
	}

	fmt.Printf("%s curriculum:\n", weeks[0].Phase)
	for _, week := range weeks {
		fmt.Printf("  Week %d: %s\n", week.Week, week.Topic)
		if len(week.Themes) > 0 {
			fmt.Printf("          %s\n", strings.Join(week.Themes, ", "))
		}
	}

	return nil
}
