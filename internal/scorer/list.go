package scorer

import (
	"fmt"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
	"github.com/tyyim/esg-reason-sub000/internal/dataset"
)

// listComparator scores List answers as the F1 of fuzzy element hits.
// Element order is ignored unless the question carries an ordering cue,
// in which case positional equality is required.
type listComparator struct {
	matcher answer.Matcher
}

func (c listComparator) compare(q *dataset.Question, rawPred string) (comparison, error) {
	gt := q.GroundTruthList
	if len(gt) == 0 {
		gt = answer.ParseList(q.GroundTruth)
	}
	if len(gt) == 0 {
		return comparison{}, fmt.Errorf("scorer: list ground truth %q: no elements", q.GroundTruth)
	}

	gtNorm := normalizeElements(gt)
	predNorm := normalizeElements(answer.ParseList(rawPred))

	out := comparison{
		normalizedGT:   strings.Join(gtNorm, ", "),
		normalizedPred: strings.Join(predNorm, ", "),
	}

	var hits int
	if answer.HasOrderingCue(q.Text) {
		out.method = MethodListOrdered
		hits = c.positionalHits(gtNorm, predNorm)
	} else {
		out.method = MethodListF1
		hits = c.bipartiteHits(gtNorm, predNorm)
	}

	out.score = f1(hits, len(gtNorm), len(predNorm))
	return out, nil
}

// bipartiteHits matches each ground-truth element to its best predicted
// element above the threshold. A predicted element satisfies at most one
// ground-truth element, so repeating one correct item does not inflate
// recall.
func (c listComparator) bipartiteHits(gt, pred []string) int {
	used := make([]bool, len(pred))
	hits := 0
	for _, g := range gt {
		best := -1
		bestSim := 0.0
		for i, p := range pred {
			if used[i] {
				continue
			}
			if sim := answer.Similarity(g, p); sim > bestSim {
				bestSim = sim
				best = i
			}
		}
		if best >= 0 && bestSim >= c.matcher.Threshold {
			used[best] = true
			hits++
		}
	}
	return hits
}

func (c listComparator) positionalHits(gt, pred []string) int {
	n := len(gt)
	if len(pred) < n {
		n = len(pred)
	}
	hits := 0
	for i := 0; i < n; i++ {
		if answer.Similarity(gt[i], pred[i]) >= c.matcher.Threshold {
			hits++
		}
	}
	return hits
}

func normalizeElements(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = answer.NormalizeElement(e)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func f1(hits, gtLen, predLen int) float64 {
	if hits == 0 || gtLen == 0 || predLen == 0 {
		return 0
	}
	precision := float64(hits) / float64(predLen)
	recall := float64(hits) / float64(gtLen)
	return 2 * precision * recall / (precision + recall)
}
