package stats

import (
	"fmt"
	"io"
)

// DefaultAlpha is the significance level reports judge uniformity at.
const DefaultAlpha = 0.001

// WriteSummary prints r as a single line with its verdict at alpha.
func WriteSummary(w io.Writer, r Result, alpha float64) error {
	verdict := "uniform"
	if r.Rejects(alpha) {
		verdict = "not uniform"
	}
	_, err := fmt.Fprintf(w, "Chi-squared: %.3f (df=%d, p=%.4f) %s at alpha=%g\n",
		r.Statistic, r.DegreesOfFreedom, r.PValue, verdict, alpha)
	return err
}
