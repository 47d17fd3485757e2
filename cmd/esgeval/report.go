package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
	"github.com/tyyim/esg-reason-sub000/internal/report"
)

type reportOptions struct {
	datasetPath    string
	checkpointPath string
	outputPath     string
}

func newReportCmd(st *cliState) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build an accuracy report from an existing checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "path to dataset JSON (required)")
	cmd.Flags().StringVar(&opts.checkpointPath, "checkpoint", "", "checkpoint path (required)")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "write the report JSON to this path")

	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("checkpoint")
	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	if opts == nil {
		return fmt.Errorf("report: nil options")
	}

	questions, err := dataset.Load(strings.TrimSpace(opts.datasetPath))
	if err != nil {
		return err
	}

	rec, err := checkpoint.Load(strings.TrimSpace(opts.checkpointPath))
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return fmt.Errorf("report: checkpoint %s has no entries", opts.checkpointPath)
	}

	rep := report.Build(questions, rec)
	fmt.Fprint(cmd.OutOrStdout(), formatReport(rep))

	if outputPath := strings.TrimSpace(opts.outputPath); outputPath != "" {
		if err := report.Write(outputPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
	}
	return nil
}
