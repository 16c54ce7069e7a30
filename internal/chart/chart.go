// Package chart renders per-value counts as ASCII bar charts.
package chart

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BarWidth is the bar length of the largest bucket.
const BarWidth = 50

// Printer returns the printer every report formats numbers with.
func Printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// BarLength scales count against peak onto [0, BarWidth].
func BarLength(count, peak uint64) int {
	if peak == 0 {
		return 0
	}
	return int(float64(count) / float64(peak) * BarWidth)
}

// WriteHistogram renders one row per value with its share of trials and a
// bar scaled to the largest count.
func WriteHistogram(w io.Writer, p *message.Printer, counts []uint64, trials uint64) error {
	if p == nil {
		return fmt.Errorf("printer is required")
	}
	var peak uint64
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	bw := bufio.NewWriter(w)
	p.Fprintf(bw, "\nValue | Percentage | Histogram\n")
	p.Fprintf(bw, "----- | ---------- | ---------\n")
	for i, c := range counts {
		var pct float64
		if trials > 0 {
			pct = float64(c) / float64(trials) * 100
		}
		p.Fprintf(bw, "%5d | %9.2f%% | %s\n", i, pct, strings.Repeat("#", BarLength(c, peak)))
	}
	return bw.Flush()
}
