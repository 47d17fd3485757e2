package main

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/tyyim/esg-reason-sub000/internal/report"
	"github.com/tyyim/esg-reason-sub000/internal/runner"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func coloredCount(n int, color string) string {
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%s%d%s", color, n, colorReset)
}

func formatProgress(p runner.Progress) string {
	eta := ""
	if p.ETA > 0 {
		eta = " eta=" + p.ETA.Round(time.Second).String()
	}
	return fmt.Sprintf("[%d/%d] %s score=%.3f correct=%d failed=%d%s",
		p.Done, p.Total, p.LastID, p.LastScore, p.Correct, p.Failed, eta)
}

func formatSummary(sum *runner.Summary) string {
	if sum == nil {
		return "Summary: <nil>\n"
	}
	return fmt.Sprintf("Summary: total=%d skipped=%d attempted=%d correct=%s failed=%s elapsed=%s\n",
		sum.Total, sum.Skipped, sum.Attempted,
		coloredCount(sum.Correct, colorGreen),
		coloredCount(sum.Failed, colorRed),
		sum.Elapsed.Round(time.Second))
}

func formatReport(r *report.Report) string {
	if r == nil {
		return "Report: <nil>\n"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Accuracy: %.4f (%d/%d correct, %d errored)\n", r.OverallAccuracy, r.Correct, r.Total, r.Errored)

	formats := make([]string, 0, len(r.ByFormat))
	for name := range r.ByFormat {
		formats = append(formats, name)
	}
	sort.Strings(formats)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tACCURACY\tCORRECT\tTOTAL")
	for _, name := range formats {
		fs := r.ByFormat[name]
		fmt.Fprintf(tw, "%s\t%.4f\t%d\t%d\n", name, fs.Accuracy, fs.Correct, fs.Total)
	}
	_ = tw.Flush()
	return buf.String()
}
