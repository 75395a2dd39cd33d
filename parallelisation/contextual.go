package parallelisation

import (
	"context"

	"github.com/ARM-software/golang-testserver/commonerrors"
)

// DetermineContextError determines what the context error is if any.
func DetermineContextError(ctx context.Context) error {
	err := commonerrors.ErrFromContext(ctx)
	if commonerrors.Any(err, nil) {
		return err
	}
	return commonerrors.WrapError(err, context.Cause(ctx), "")
}
