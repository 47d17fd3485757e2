package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tyyim/esg-reason-sub000/internal/store"
)

type historyOptions struct {
	datasetName  string
	providerName string
	limit        int
	since        string
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past evaluation runs",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigInto(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetName, "dataset", "", "filter by dataset name")
	cmd.Flags().StringVar(&opts.providerName, "provider", "", "filter by provider")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "max runs to list")
	cmd.Flags().StringVar(&opts.since, "since", "", "only runs since date (YYYY-MM-DD or RFC3339)")

	cmd.AddCommand(newHistoryShowCmd(st))
	return cmd
}

func newHistoryShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show details for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, args[0])
		},
	}
}

func runHistoryList(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("history: nil options")
	}

	since, err := parseSince(opts.since)
	if err != nil {
		return err
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	runs, err := stor.ListRuns(context.Background(), store.RunFilter{
		Dataset:  strings.TrimSpace(opts.datasetName),
		Provider: strings.TrimSpace(opts.providerName),
		Since:    since,
		Limit:    opts.limit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tDATASET\tPROVIDER\tACCURACY\tQUESTIONS\tERRORED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%d\t%d\t%s\n",
			r.ID, r.Dataset, r.Provider, r.Accuracy, r.TotalQuestions, r.Errored,
			r.StartedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, st *cliState, runID string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("history: empty run id")
	}

	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	ctx := context.Background()
	run, err := stor.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("history: run %q not found", runID)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run: %s\n", run.ID)
	fmt.Fprintf(out, "Dataset: %s  Provider: %s  Model: %s\n", run.Dataset, run.Provider, run.Model)
	fmt.Fprintf(out, "Started: %s  Finished: %s\n",
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Accuracy: %.4f (%d/%d correct, %d errored)\n\n",
		run.Accuracy, run.Correct, run.TotalQuestions, run.Errored)

	results, err := stor.GetResults(ctx, runID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUESTION\tSCORE\tCORRECT\tMETHOD\tLAT(ms)\tERROR")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.3f\t%v\t%s\t%d\t%s\n",
			r.QuestionID, r.Score, r.Correct, r.Method, r.LatencyMs, r.Error)
	}
	return tw.Flush()
}

func parseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("history: invalid --since %q (want YYYY-MM-DD or RFC3339)", raw)
}
