package gap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Report bucket range. It is fixed and independent of the tracked maximum.
const (
	ReportFirstGap = 1
	ReportLastGap  = 10
)

// WriteReport renders hist as a table with one row per symbol and one
// column per gap in [ReportFirstGap, ReportLastGap]. It does not modify
// hist, so repeated calls produce identical output.
func WriteReport(w io.Writer, title string, hist *Histogram) error {
	if hist == nil {
		return errors.New("histogram is required")
	}
	bw := bufio.NewWriter(w)
	if title != "" {
		fmt.Fprintf(bw, "%s\n", title)
	}
	fmt.Fprintf(bw, "Number | Gap Distribution (%d-%d)\n", ReportFirstGap, ReportLastGap)
	fmt.Fprintf(bw, "------ | -----------------------\n")
	for s := 0; s < hist.Symbols(); s++ {
		fmt.Fprintf(bw, "%6d | ", s)
		for g := ReportFirstGap; g <= ReportLastGap; g++ {
			fmt.Fprintf(bw, "%5d ", hist.Count(s, g))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
