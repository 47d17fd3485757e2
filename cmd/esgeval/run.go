package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
	"github.com/tyyim/esg-reason-sub000/internal/llm"
	"github.com/tyyim/esg-reason-sub000/internal/predictor"
	"github.com/tyyim/esg-reason-sub000/internal/report"
	"github.com/tyyim/esg-reason-sub000/internal/retry"
	"github.com/tyyim/esg-reason-sub000/internal/runner"
	"github.com/tyyim/esg-reason-sub000/internal/scorer"
	"github.com/tyyim/esg-reason-sub000/internal/store"
)

type runOptions struct {
	datasetPath    string
	checkpointPath string
	outputPath     string
	providerName   string
	model          string
	concurrency    int
	maxQuestions   int
	timeout        time.Duration
	saveEvery      int
	saveInterval   time.Duration
	resume         bool
	retryFailed    bool
	quiet          bool
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evaluation over a dataset",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigInto(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "path to dataset JSON (required)")
	cmd.Flags().StringVar(&opts.checkpointPath, "checkpoint", "", "checkpoint path (default checkpoints/<dataset>.json)")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "write the final report JSON to this path")
	cmd.Flags().StringVar(&opts.providerName, "provider", "", "LLM provider (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "concurrent predictor calls (overrides config)")
	cmd.Flags().IntVar(&opts.maxQuestions, "max-questions", 0, "evaluate at most N questions")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-question timeout (overrides config)")
	cmd.Flags().IntVar(&opts.saveEvery, "save-every", 0, "checkpoint after every N questions (overrides config)")
	cmd.Flags().DurationVar(&opts.saveInterval, "save-interval", 0, "checkpoint at least this often (overrides config)")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "continue from an existing checkpoint")
	cmd.Flags().BoolVar(&opts.retryFailed, "retry-failed", false, "re-attempt previously failed questions (implies --resume)")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "suppress per-question progress")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func runEvaluation(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("run: nil options")
	}

	datasetPath := strings.TrimSpace(opts.datasetPath)
	if datasetPath == "" {
		return fmt.Errorf("run: --dataset is required")
	}

	questions, err := dataset.Load(datasetPath)
	if err != nil {
		return err
	}

	checkpointPath := strings.TrimSpace(opts.checkpointPath)
	if checkpointPath == "" {
		base := strings.TrimSuffix(filepath.Base(datasetPath), filepath.Ext(datasetPath))
		checkpointPath = filepath.Join("checkpoints", base+".json")
	}

	if err := prepareCheckpoint(checkpointPath, opts.resume, opts.retryFailed); err != nil {
		return err
	}

	providerName := strings.TrimSpace(opts.providerName)
	if providerName == "" {
		providerName = strings.TrimSpace(st.cfg.LLM.DefaultProvider)
	}
	if model := strings.TrimSpace(opts.model); model != "" && providerName != "" {
		p := st.cfg.LLM.Providers[providerName]
		p.Model = model
		st.cfg.LLM.Providers[providerName] = p
	}

	provider, err := llm.ProviderFromConfig(st.cfg, providerName)
	if err != nil {
		return err
	}

	eval := scorer.New()
	if st.cfg.Evaluation.StringThreshold > 0 || st.cfg.Evaluation.ListThreshold > 0 {
		eval = scorer.NewWithThresholds(st.cfg.Evaluation.StringThreshold, st.cfg.Evaluation.ListThreshold)
	}

	cfg := runnerConfig(st, opts)
	r := runner.New(predictor.NewLLMPredictor(provider), eval, cfg)
	if !opts.quiet {
		r.OnProgress(func(p runner.Progress) {
			fmt.Fprintln(cmd.ErrOrStderr(), formatProgress(p))
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now().UTC()
	sum, runErr := r.Run(ctx, questions, checkpointPath)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fmt.Fprint(cmd.OutOrStdout(), formatSummary(sum))

	rep := report.Build(questions, sum.Record)
	fmt.Fprint(cmd.OutOrStdout(), formatReport(rep))

	if outputPath := strings.TrimSpace(opts.outputPath); outputPath != "" {
		if err := report.Write(outputPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(cmd.OutOrStdout(), "Interrupted; progress saved to %s. Re-run with --resume to continue.\n", checkpointPath)
		return errInterrupted
	}

	if err := persistRun(st, opts, provider.Name(), datasetPath, startedAt, sum, rep); err != nil {
		return err
	}
	if sum.Failed > 0 {
		return errRunFailures
	}
	return nil
}

// prepareCheckpoint guards against silently merging into a prior run
// and reopens failed entries when asked.
func prepareCheckpoint(path string, resume bool, retryFailed bool) error {
	rec, err := checkpoint.Load(path)
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	if !resume && !retryFailed {
		return fmt.Errorf("run: checkpoint %s already has %d entries; pass --resume to continue or remove the file to start over", path, len(rec))
	}
	if retryFailed {
		if n := rec.ReopenFailed(); n > 0 {
			if err := checkpoint.Save(path, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func runnerConfig(st *cliState, opts *runOptions) runner.Config {
	cfg := runner.Config{
		Concurrency:  st.cfg.Evaluation.Concurrency,
		Timeout:      st.cfg.Evaluation.Timeout,
		MaxQuestions: opts.maxQuestions,
		SaveEvery:    st.cfg.Evaluation.SaveEvery,
		SaveInterval: st.cfg.Evaluation.SaveInterval,
		Retry:        retryPolicy(st),
	}
	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.saveEvery > 0 {
		cfg.SaveEvery = opts.saveEvery
	}
	if opts.saveInterval > 0 {
		cfg.SaveInterval = opts.saveInterval
	}
	return cfg
}

func retryPolicy(st *cliState) retry.Policy {
	p := retry.Default()
	rc := st.cfg.Evaluation.Retry
	if rc.MaxAttempts > 0 {
		p.MaxAttempts = rc.MaxAttempts
	}
	if rc.InitialDelay > 0 {
		p.InitialDelay = rc.InitialDelay
	}
	if rc.MaxDelay > 0 {
		p.MaxDelay = rc.MaxDelay
	}
	return p
}

func persistRun(st *cliState, opts *runOptions, providerName, datasetPath string, startedAt time.Time, sum *runner.Summary, rep *report.Report) error {
	stor, err := store.Open(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	ctx := context.Background()
	runID := store.NewRunID(startedAt)

	model := strings.TrimSpace(opts.model)
	if model == "" {
		model = st.cfg.LLM.Providers[providerName].Model
	}

	run := &store.RunRecord{
		ID:             runID,
		Dataset:        filepath.Base(datasetPath),
		Provider:       providerName,
		Model:          model,
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
		TotalQuestions: rep.Total,
		Correct:        rep.Correct,
		Errored:        rep.Errored,
		Accuracy:       rep.OverallAccuracy,
		Config: map[string]any{
			"concurrency":   st.cfg.Evaluation.Concurrency,
			"max_questions": opts.maxQuestions,
		},
	}
	if err := stor.SaveRun(ctx, run); err != nil {
		return err
	}

	results := make([]store.ResultRecord, 0, len(sum.Record))
	for _, e := range sum.Record {
		results = append(results, store.ResultRecord{
			QuestionID: e.QuestionID,
			RawAnswer:  e.RawAnswer,
			Score:      e.Score,
			Correct:    e.Correct,
			Method:     e.Method,
			Error:      e.Error,
			LatencyMs:  e.LatencyMs,
		})
	}
	return stor.SaveResults(ctx, runID, results)
}
