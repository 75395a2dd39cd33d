/*
 * Copyright (C) 2020-2026 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package commonerrors defines common errors used across the module so that callers can test for a category of failure rather than a specific message.
package commonerrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUndefined  = errors.New("undefined")
	ErrInvalid    = errors.New("invalid")
	ErrTimeout    = errors.New("timeout")
	ErrCancelled  = errors.New("cancelled")
	ErrUnexpected = errors.New("unexpected")
	ErrCondition  = errors.New("failed condition")
	ErrUnknown    = errors.New("unknown")
)

// Any determines whether the target error is of the same type as any of the errors `err`.
func Any(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return true
		}
	}
	return false
}

// None determines whether the target error is of none of the types of the errors `err`.
func None(target error, err ...error) bool {
	for _, e := range err {
		if errors.Is(e, target) || errors.Is(target, e) {
			return false
		}
	}
	return true
}

// CorrespondTo determines whether the error description contains any of the descriptions provided (case-insensitive).
func CorrespondTo(target error, description ...string) bool {
	if target == nil {
		return false
	}
	text := strings.ToLower(target.Error())
	for _, d := range description {
		if strings.Contains(text, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// WrapError wraps an error into a particular targetError. However, if the original error has to do with a contextual error (i.e. ErrCancelled or ErrTimeout), it will be passed through without having its type changed.
// If the original error is nil, the target error is returned with the message.
func WrapError(targetError, originalError error, msg string) error {
	tErr := targetError
	if tErr == nil {
		tErr = ErrUnknown
	}
	switch {
	case originalError == nil:
		if msg == "" {
			return tErr
		}
		return fmt.Errorf("%w: %v", tErr, msg)
	case errors.Is(originalError, tErr), Any(originalError, ErrTimeout, ErrCancelled):
		if msg == "" {
			return originalError
		}
		return fmt.Errorf("%v: %w", msg, originalError)
	case errors.Is(tErr, originalError):
		if msg == "" {
			return tErr
		}
		return fmt.Errorf("%w: %v", tErr, msg)
	case msg == "":
		return fmt.Errorf("%w: %w", tErr, originalError)
	default:
		return fmt.Errorf("%w: %v: %w", tErr, msg, originalError)
	}
}

// WrapErrorf is similar to WrapError but uses a format for the message.
func WrapErrorf(targetError, originalError error, msgFormat string, args ...any) error {
	return WrapError(targetError, originalError, fmt.Sprintf(msgFormat, args...))
}

// ConvertContextError converts a context error into common errors.
func ConvertContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case Any(err, ErrTimeout, ErrCancelled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	default:
		return err
	}
}

// ErrFromContext returns the error of the context, expressed as a common error, if any.
func ErrFromContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ConvertContextError(ctx.Err())
}
