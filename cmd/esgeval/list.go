package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dataset questions or answer formats",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newListQuestionsCmd())
	cmd.AddCommand(newListFormatsCmd())
	return cmd
}

func newListQuestionsCmd() *cobra.Command {
	var datasetPath string
	var formatFilter string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List questions in a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := dataset.Load(strings.TrimSpace(datasetPath))
			if err != nil {
				return err
			}

			var want answer.Format
			filter := strings.TrimSpace(formatFilter)
			if filter != "" {
				f, err := answer.ParseFormat(filter)
				if err != nil {
					return err
				}
				want = f
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFORMAT\tDOC\tQUESTION")
			for i := range questions {
				q := &questions[i]
				if filter != "" && q.Format != want {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", q.ID, q.Format, q.DocID, truncate(q.Text, 80))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to dataset JSON (required)")
	cmd.Flags().StringVar(&formatFilter, "format", "", "only show questions with this answer format")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func newListFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported answer formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FORMAT\tSCORING")
			for _, f := range answer.Formats() {
				fmt.Fprintf(tw, "%s\t%s\n", f, formatScoring(f))
			}
			return tw.Flush()
		},
	}
}

func formatScoring(f answer.Format) string {
	switch f {
	case answer.FormatInteger:
		return "exact numeric equality"
	case answer.FormatFloat:
		return "numeric match within 1% tolerance"
	case answer.FormatString:
		return "substring, exact, or graded edit similarity"
	case answer.FormatList:
		return "F1 over fuzzy element matches"
	case answer.FormatUnanswerable:
		return "null-synonym equivalence"
	default:
		return "unknown"
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
