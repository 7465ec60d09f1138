package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiredyn/sweeppost/internal/rangeexpr"
)

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <range>",
		Short: "Expand a job-id range expression without running anything",
		Long: `Expand prints the job ids a range expression resolves to, one per line.

Expressions accept comma-separated entries and inclusive colon ranges,
with optional surrounding brackets: "142872:142875, 142879".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := rangeexpr.Parse(args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"job_ids": ids,
					"count":   len(ids),
				})
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
