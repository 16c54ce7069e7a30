package tally

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/text/message"
)

// Percent returns count as a percentage of trials, 0 when trials is 0.
func Percent(count, trials uint64) float64 {
	if trials == 0 {
		return 0
	}
	return float64(count) / float64(trials) * 100
}

// WriteReport renders counts as a two-column table of symbol and share of
// trials.
func WriteReport(w io.Writer, p *message.Printer, title string, counts []uint64, trials uint64) error {
	if p == nil {
		return fmt.Errorf("printer is required")
	}
	bw := bufio.NewWriter(w)
	if title != "" {
		p.Fprintf(bw, "%s\n", title)
	}
	p.Fprintf(bw, "Num \t Percentage\n")
	p.Fprintf(bw, "----\t----------\n")
	for i, c := range counts {
		p.Fprintf(bw, "%-3d \t %8.2f%%\n", i, Percent(c, trials))
	}
	return bw.Flush()
}
