package runner

import (
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/checkpoint"
)

// latencyWindow bounds the moving average used for the ETA estimate so
// early slow calls stop dominating once the run warms up.
const latencyWindow = 20

type Progress struct {
	Done      int
	Total     int
	Correct   int
	Failed    int
	LastID    string
	LastScore float64
	ETA       time.Duration
}

type ProgressFunc func(Progress)

type tracker struct {
	total       int
	concurrency int

	latencies [latencyWindow]time.Duration
	next      int
	filled    int

	done    int
	correct int
	failed  int
}

func newTracker(total int, concurrency int) *tracker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &tracker{total: total, concurrency: concurrency}
}

// observe records one completed question. Callers serialize access.
func (t *tracker) observe(latency time.Duration, e checkpoint.Entry) Progress {
	t.latencies[t.next] = latency
	t.next = (t.next + 1) % latencyWindow
	if t.filled < latencyWindow {
		t.filled++
	}

	t.done++
	if e.Error != "" {
		t.failed++
	} else if e.Correct {
		t.correct++
	}

	return Progress{
		Done:      t.done,
		Total:     t.total,
		Correct:   t.correct,
		Failed:    t.failed,
		LastID:    e.QuestionID,
		LastScore: e.Score,
		ETA:       t.eta(),
	}
}

func (t *tracker) eta() time.Duration {
	if t.filled == 0 || t.done >= t.total {
		return 0
	}

	var sum time.Duration
	for i := 0; i < t.filled; i++ {
		sum += t.latencies[i]
	}
	avg := sum / time.Duration(t.filled)

	remaining := t.total - t.done
	waves := (remaining + t.concurrency - 1) / t.concurrency
	return avg * time.Duration(waves)
}
