// Package runner executes a benchmark dataset against a predictor,
// scoring each answer and checkpointing outcomes so an interrupted run
// resumes without repeating completed questions.
package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
	"github.com/tyyim/esg-reason-sub000/internal/predictor"
	"github.com/tyyim/esg-reason-sub000/internal/retry"
	"github.com/tyyim/esg-reason-sub000/internal/scorer"
)

type Config struct {
	Concurrency  int
	Timeout      time.Duration
	MaxQuestions int
	SaveEvery    int
	SaveInterval time.Duration
	Retry        retry.Policy
}

// Summary aggregates one Run call. Skipped counts questions already
// terminal in the checkpoint; they cost no predictor calls.
type Summary struct {
	Total     int
	Skipped   int
	Attempted int
	Correct   int
	Failed    int
	Elapsed   time.Duration
	Record    checkpoint.Record
}

type BatchRunner struct {
	predictor  predictor.Predictor
	evaluator  *scorer.Evaluator
	cfg        Config
	onProgress ProgressFunc

	sem chan struct{}
}

func New(pred predictor.Predictor, eval *scorer.Evaluator, cfg Config) *BatchRunner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.SaveEvery <= 0 {
		cfg.SaveEvery = checkpoint.DefaultSaveEvery
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = checkpoint.DefaultSaveInterval
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.Default()
	}

	return &BatchRunner{
		predictor: pred,
		evaluator: eval,
		cfg:       cfg,
		sem:       make(chan struct{}, cfg.Concurrency),
	}
}

// OnProgress registers a callback invoked after every completed
// question. Must be set before Run.
func (r *BatchRunner) OnProgress(fn ProgressFunc) {
	if r == nil {
		return
	}
	r.onProgress = fn
}

// Run evaluates every question not already terminal in the checkpoint
// at path. The checkpoint is saved on a count and time cadence during
// the run and flushed before returning, including on cancellation.
func (r *BatchRunner) Run(ctx context.Context, questions []dataset.Question, checkpointPath string) (*Summary, error) {
	if r == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}
	if r.predictor == nil {
		return nil, errors.New("runner: nil predictor")
	}
	if r.evaluator == nil {
		return nil, errors.New("runner: nil evaluator")
	}
	if strings.TrimSpace(checkpointPath) == "" {
		return nil, errors.New("runner: empty checkpoint path")
	}

	start := time.Now()

	rec, err := checkpoint.Load(checkpointPath)
	if err != nil {
		return nil, err
	}

	if r.cfg.MaxQuestions > 0 && len(questions) > r.cfg.MaxQuestions {
		questions = questions[:r.cfg.MaxQuestions]
	}

	terminal := rec.TerminalIDs()
	pending := make([]dataset.Question, 0, len(questions))
	for _, q := range questions {
		if _, done := terminal[q.ID]; done {
			continue
		}
		pending = append(pending, q)
	}

	out := &Summary{
		Total:   len(questions),
		Skipped: len(questions) - len(pending),
	}

	saver := checkpoint.NewSaver(checkpointPath, rec, r.cfg.SaveEvery, r.cfg.SaveInterval)
	track := newTracker(len(pending), r.cfg.Concurrency)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

questionLoop:
	for i := range pending {
		select {
		case <-ctx.Done():
			break questionLoop
		default:
		}

		q := pending[i]
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := r.acquire(ctx); err != nil {
				return
			}
			defer r.release()

			entry := r.runOne(ctx, &q)

			mu.Lock()
			out.Attempted++
			if entry.Error != "" {
				out.Failed++
			} else if entry.Correct {
				out.Correct++
			}
			if err := saver.Add(entry); err != nil && firstErr == nil {
				firstErr = err
			}
			prog := track.observe(time.Duration(entry.LatencyMs)*time.Millisecond, entry)
			fn := r.onProgress
			mu.Unlock()

			if fn != nil {
				fn(prog)
			}
		}()
	}

	wg.Wait()

	if err := saver.Flush(); err != nil && firstErr == nil {
		firstErr = err
	}

	out.Record = saver.Snapshot()
	out.Elapsed = time.Since(start)

	if firstErr != nil {
		return out, firstErr
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func (r *BatchRunner) runOne(ctx context.Context, q *dataset.Question) checkpoint.Entry {
	start := time.Now()
	// Each attempt gets its own deadline: an expired attempt is a
	// transient failure, and the next attempt starts fresh.
	raw, err := retry.DoWithValue(ctx, r.cfg.Retry, func() (string, error) {
		actx := ctx
		if r.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
			defer cancel()
		}
		return r.predictor.Predict(actx, q, "")
	})
	latency := time.Since(start).Milliseconds()

	var res scorer.Result
	if err != nil {
		res = r.evaluator.EvaluateError(q)
	} else {
		res = r.evaluator.Evaluate(q, raw)
	}

	entry := checkpoint.Entry{
		QuestionID:     q.ID,
		RawAnswer:      raw,
		Score:          res.Score,
		Correct:        res.Correct,
		Method:         res.Method,
		NormalizedGT:   res.NormalizedGT,
		NormalizedPred: res.NormalizedPred,
		LatencyMs:      latency,
		Timestamp:      time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

func (r *BatchRunner) acquire(ctx context.Context) error {
	if r == nil || r.sem == nil {
		return errors.New("runner: nil semaphore")
	}
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *BatchRunner) release() {
	if r == nil || r.sem == nil {
		return
	}
	select {
	case <-r.sem:
	default:
	}
}
