/*
 * Copyright (C) 2020-2026 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */
package httptest

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-logr/logr"
	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"

	"github.com/ARM-software/golang-testserver/commonerrors"
)

// HandlerFunc is a request handler which may report a failure by returning an error instead of panicking.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrHandlerFailure is used to describe requests whose handler did not complete.
var ErrHandlerFailure = errors.New("request handler failed")

type hitCounters struct {
	total      atomic.Uint64
	successful atomic.Uint64
}

// load returns a consistent snapshot: successful is read first since it is only ever incremented after total.
func (c *hitCounters) load() (total, successful uint64) {
	successful = c.successful.Load()
	total = c.total.Load()
	return
}

type failureRecorder struct {
	mu       deadlock.Mutex
	failures *multierror.Error
}

func (f *failureRecorder) record(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = multierror.Append(f.failures, err)
}

func (f *failureRecorder) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures.ErrorOrNil()
}

type countingHandler struct {
	handler  HandlerFunc
	counters *hitCounters
	failures *failureRecorder
	logger   logr.Logger
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.counters.total.Inc()
	logger := h.logger.WithValues("request-id", newRequestID(), "method", r.Method, "path", r.URL.Path)
	completed := false
	defer func() {
		if completed {
			return
		}
		recovered := recover()
		err := describeAbortion(r, recovered)
		h.failures.record(err)
		logger.Error(err, "request handler did not complete")
		if recovered != nil {
			// net/http aborts the connection and reports the panic.
			panic(recovered)
		}
	}()
	err := h.handler(w, r)
	completed = true
	if err != nil {
		err = commonerrors.WrapErrorf(ErrHandlerFailure, err, "%v %v", r.Method, r.URL.Path)
		h.failures.record(err)
		logger.Error(err, "request handler returned an error")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.counters.successful.Inc()
}

func describeAbortion(r *http.Request, recovered any) error {
	switch {
	case recovered == nil:
		return fmt.Errorf("%w: %v %v: handler exited without returning", ErrHandlerFailure, r.Method, r.URL.Path)
	case recovered == http.ErrAbortHandler: //nolint:errorlint
		return fmt.Errorf("%w: %v %v: %w", ErrHandlerFailure, r.Method, r.URL.Path, http.ErrAbortHandler)
	default:
		return fmt.Errorf("%w: %v %v: panic: %v\n%s", ErrHandlerFailure, r.Method, r.URL.Path, recovered, debug.Stack())
	}
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

func newCountingHandler(handler HandlerFunc, logger logr.Logger) *countingHandler {
	return &countingHandler{
		handler:  handler,
		counters: &hitCounters{},
		failures: &failureRecorder{},
		logger:   logger,
	}
}

func fromHTTPHandler(handler http.Handler) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}
}
