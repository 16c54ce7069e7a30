package config

import (
	"fmt"
	"io"
	"os"
)

// ExitFailure is the process exit code for fatal errors.
const ExitFailure = 1

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted error message to stderr and exits with
// ExitFailure.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(ExitFailure)
}
