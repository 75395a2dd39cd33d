package logstest

import (
	"log"
	"os"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/go-logr/stdr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap/zaptest"
)

// NewNullTestLogger returns a logger to nothing
func NewNullTestLogger() logr.Logger {
	return logr.Discard()
}

// NewStdTestLogger returns a test logger to standard output.
func NewStdTestLogger() logr.Logger {
	return stdr.New(log.New(os.Stdout, "", log.Lshortfile))
}

// NewTestLogger returns a logger to use in tests
func NewTestLogger(t *testing.T) logr.Logger {
	return testr.New(t)
}

// NewVerboseTestLogger returns a test logger which also reports debug messages.
func NewVerboseTestLogger(t *testing.T) logr.Logger {
	return testr.NewWithOptions(t, testr.Options{Verbosity: 1})
}

// NewZapTestLogger returns a test logger based on zap (https://github.com/uber-go/zap) reporting to the test output.
func NewZapTestLogger(t *testing.T) logr.Logger {
	return zapr.NewLogger(zaptest.NewLogger(t))
}
