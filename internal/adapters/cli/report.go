package cli

import (
	"fmt"
	"time"
)

type FigureResult struct {
	Figure    string
	Basename  string
	Cached    bool
	Artifacts []string
	Duration  time.Duration
	Err       error
}

// Report collects per-figure outcomes of a generate-static run.
type Report struct {
	output    *Output
	results   []FigureResult
	startTime time.Time
	outputDir string
}

func NewReport(output *Output, outputDir string) *Report {
	return &Report{
		output:    output,
		results:   make([]FigureResult, 0),
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *Report) Add(result FigureResult) {
	r.results = append(r.results, result)
}

func (r *Report) HasFailures() bool {
	for _, res := range r.results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

func (r *Report) Counts() (generated, cached, failed int) {
	for _, res := range r.results {
		switch {
		case res.Err != nil:
			failed++
		case res.Cached:
			cached++
		default:
			generated++
		}
	}
	return generated, cached, failed
}

func (r *Report) Render() {
	o := r.output
	generated, cached, failed := r.Counts()

	for _, res := range r.results {
		switch {
		case res.Err != nil:
			o.PrintError("%s", res.Figure)
			o.PrintError("  %v", res.Err)
		case res.Cached:
			o.PrintStep("%s %s %s", o.Gray("="), res.Figure, o.Gray("("+res.Basename+", up to date)"))
		default:
			o.PrintSuccess("%s %s", res.Figure, o.Gray("("+res.Basename+", "+formatDuration(res.Duration)+")"))
			for _, a := range res.Artifacts {
				o.PrintFile(a)
			}
		}
	}

	summary := fmt.Sprintf("%d generated, %d up to date, %d failed in %s",
		generated, cached, failed, formatDuration(time.Since(r.startTime)))

	fmt.Fprintln(o.out)
	if failed > 0 {
		o.PrintError("%s", summary)
	} else {
		o.PrintSuccess("%s", summary)
	}

	if r.outputDir != "" {
		fmt.Fprintf(o.out, "\n  %s\n", o.Gray("Published to: "+r.outputDir))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}
