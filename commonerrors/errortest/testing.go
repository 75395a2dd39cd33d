package errortest

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ARM-software/golang-testserver/commonerrors"
)

type tHelper interface {
	Helper()
}

// AssertError asserts that the error is matching one of the `expectedErrors`
// This is a wrapper for commonerrors.Any.
func AssertError(t assert.TestingT, err error, expectedErrors ...error) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if commonerrors.Any(err, expectedErrors...) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Failed error assertion:\n actual: %v\n expected: %+v", err, expectedErrors))
}

// AssertErrorDescription asserts that the error description corresponds to one of the `expectedErrorDescriptions`
// This is a wrapper for commonerrors.CorrespondTo.
func AssertErrorDescription(t assert.TestingT, err error, expectedErrorDescriptions ...string) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if commonerrors.CorrespondTo(err, expectedErrorDescriptions...) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("Failed error description assertion:\n actual: %v\n expected: %+v", err, expectedErrorDescriptions))
}

// RequireError requires that the error is matching one of the `expectedErrors`
// This is a wrapper for commonerrors.Any.
func RequireError(t require.TestingT, err error, expectedErrors ...error) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertError(t, err, expectedErrors...) {
		return
	}
	t.FailNow()
}
