package viz

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/metrics"
)

// PrintStep writes one block of the step listing.
func PrintStep(w io.Writer, step int, s dynamo.System) {
	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("After %d steps:", step)))
	PrintBodies(w, s)
}

func PrintBodies(w io.Writer, s dynamo.System) {
	for _, b := range s {
		fmt.Fprintln(w, b.String())
	}
}

// PrintEnergy writes the per-body energy breakdown followed by the total,
// and returns the total.
func PrintEnergy(w io.Writer, s dynamo.System) int64 {
	for _, b := range s {
		pot, kin := metrics.BodyEnergy(b)
		fmt.Fprintf(w, "%s %d %s %d (%s)\n",
			MetricLabel.Render("pot:"), pot,
			MetricLabel.Render("kin:"), kin,
			b)
	}
	total := metrics.TotalEnergy(s)
	fmt.Fprintf(w, "Total energy: %s\n", MetricValue.Render(fmt.Sprint(total)))
	return total
}

// PrintCycle writes the outcome of a cycle search.
func PrintCycle(w io.Writer, outcome dynamo.Outcome, step, period uint64, s dynamo.System, elapsed time.Duration) {
	switch outcome {
	case dynamo.OutcomeFound:
		fmt.Fprintln(w, StatusFound.Render("Found seen state:"))
		PrintBodies(w, s)
		fmt.Fprintf(w, "Finished at step: %d\n", step)
		fmt.Fprintln(w, Subtle.Render(fmt.Sprintf("period %d, %v", period, elapsed.Round(time.Millisecond))))
	case dynamo.OutcomeExhausted:
		fmt.Fprintln(w, StatusExhausted.Render("No repeated state before the step ceiling"))
		fmt.Fprintf(w, "Exhausted at step: %d\n", step)
	default:
		fmt.Fprintf(w, "Stopped at step: %d (%s)\n", step, outcome)
	}
}

// Progress formats cycle search progress lines with grouped digits.
type Progress struct {
	w        io.Writer
	p        *message.Printer
	ceiling  uint64
	lastStep uint64
	last     time.Time
}

func NewProgress(w io.Writer, ceiling uint64) *Progress {
	return &Progress{
		w:       w,
		p:       message.NewPrinter(language.English),
		ceiling: ceiling,
		last:    time.Now(),
	}
}

func (p *Progress) Report(step uint64, seen int) {
	now := time.Now()
	rate := 0.0
	if dt := now.Sub(p.last).Seconds(); dt > 0 {
		rate = float64(step-p.lastStep) / dt
	}
	p.last, p.lastStep = now, step

	line := p.p.Sprintf("step %d  states %d  %.0f steps/s", step, seen, rate)
	if p.ceiling > 0 {
		line += "  " + ProgressBar(float64(step)/float64(p.ceiling), 20)
	}
	fmt.Fprintln(p.w, Subtle.Render(line))
}
