/*
 * Copyright (C) 2020-2026 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package httptest provides an HTTP server for tests which listens on a random loopback port, counts the requests it serves
// and, once the test is over, checks that it was actually called and that none of its handlers failed.
package httptest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ARM-software/golang-testserver/commonerrors"
	"github.com/ARM-software/golang-testserver/logs"
	"github.com/ARM-software/golang-testserver/parallelisation"
)

const (
	loopbackHost = "127.0.0.1"
	loggerSource = "test-server"
)

// TestingT is the subset of testing.TB used by the server. *testing.T and *testing.B implement it.
type TestingT interface {
	require.TestingT
	Helper()
	Cleanup(func())
	Failed() bool
}

// Server is a test server started by Start.
type Server struct {
	t        TestingT
	cfg      *Configuration
	logger   logr.Logger
	addr     *net.TCPAddr
	dispatch *countingHandler
	// serving completes once the server has stopped serving and in-flight requests were drained.
	serving      *errgroup.Group
	shutdown     chan struct{}
	shutdownOnce sync.Once
	closeOnce    sync.Once
}

// Start starts a server on a random loopback port which serves every request with handler.
// The listener is bound when Start returns. The server is disposed of (see Close) when the test completes.
func Start(t TestingT, handler http.Handler, opts ...Option) *Server {
	t.Helper()
	require.NotNil(t, handler, "missing request handler")
	return StartWithErrors(t, fromHTTPHandler(handler), opts...)
}

// StartFunc is similar to Start but for handler functions.
func StartFunc(t TestingT, handler func(http.ResponseWriter, *http.Request), opts ...Option) *Server {
	t.Helper()
	require.NotNil(t, handler, "missing request handler")
	return Start(t, http.HandlerFunc(handler), opts...)
}

// StartWithErrors is similar to Start but for handlers which can return errors. A request whose handler returns an error is
// answered with a 500 status and is counted as a failed request, exactly as if the handler had panicked.
func StartWithErrors(t TestingT, handler HandlerFunc, opts ...Option) *Server {
	t.Helper()
	require.NotNil(t, handler, "missing request handler")
	cfg := newConfiguration(opts...)
	if err := cfg.Validate(); err != nil {
		require.NoError(t, commonerrors.WrapError(commonerrors.ErrInvalid, err, "invalid test server configuration"))
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(loopbackHost, "0"))
	require.NoError(t, err, "test server could not bind a port")
	addr := listener.Addr().(*net.TCPAddr)
	logger := determineLogger(t, cfg).WithName(loggerSource).WithValues("address", addr.String())

	s := &Server{
		t:        t,
		cfg:      cfg,
		logger:   logger,
		addr:     addr,
		dispatch: newCountingHandler(handler, logger),
		serving:  &errgroup.Group{},
		shutdown: make(chan struct{}),
	}
	srv := &http.Server{
		Handler:           s.dispatch,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ErrorLog:          logs.NewStdErrorLogger(logger, "http"),
	}
	s.serve(srv, listener)
	t.Cleanup(s.Close)
	s.logger.V(1).Info("test server listening")
	return s
}

func (s *Server) serve(srv *http.Server, listener net.Listener) {
	s.serving.Go(func() error {
		err := srv.Serve(listener)
		if commonerrors.Any(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	s.serving.Go(func() error {
		<-s.shutdown
		s.logger.V(1).Info("test server shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(ctx)
		if err != nil {
			return commonerrors.WrapError(commonerrors.ErrTimeout, commonerrors.ConvertContextError(err), "in-flight requests did not complete")
		}
		s.logger.V(1).Info("test server stopped")
		return nil
	})
}

func determineLogger(t TestingT, cfg *Configuration) logr.Logger {
	if cfg.Logger != nil {
		return *cfg.Logger
	}
	if tt, ok := t.(testr.TestingT); ok {
		return testr.NewWithInterface(tt, testr.Options{})
	}
	return logr.Discard()
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// BaseURL returns the URL of the server e.g. http://127.0.0.1:54321
func (s *Server) BaseURL() string {
	return "http://" + net.JoinHostPort(s.Host(), strconv.Itoa(s.Port()))
}

// URL returns the URL of a path on the server. The path is expected to start with a slash.
func (s *Server) URL(path string) string {
	return s.BaseURL() + path
}

func (s *Server) Host() string {
	return loopbackHost
}

func (s *Server) Port() int {
	return s.addr.Port
}

// Hits returns the number of requests which were served successfully so far.
func (s *Server) Hits() uint64 {
	_, successful := s.dispatch.counters.load()
	return successful
}

// TotalHits returns the number of requests received so far, including those which are still in flight or failed.
func (s *Server) TotalHits() uint64 {
	total, _ := s.dispatch.counters.load()
	return total
}

// AssertHits fails the test immediately if the number of successfully served requests differs from hits.
func (s *Server) AssertHits(hits uint64) {
	s.t.Helper()
	require.Equal(s.t, hits, s.Hits(), "unexpected number of test server hits")
}

// Client returns a new HTTP client which does not keep connections alive and so does not hold on to the server after the test.
func (s *Server) Client() *http.Client {
	return cleanhttp.DefaultClient()
}

func (s *Server) requestShutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
	})
}

// Close shuts the server down gracefully and checks that it was called at least once, that no request failed and that it
// stopped in time. Checks are skipped if the test has already failed. Close is called automatically at the end of the test
// and calling it more than once has no further effect.
func (s *Server) Close() {
	s.t.Helper()
	s.closeOnce.Do(s.dispose)
}

func (s *Server) dispose() {
	s.t.Helper()
	s.requestShutdown()
	if s.t.Failed() {
		err := parallelisation.WaitWithTimeout(context.Background(), s.cfg.ShutdownTimeout, s.serving)
		if err != nil {
			s.logger.Error(err, "test server did not stop cleanly after test failure")
		}
		return
	}
	total, successful := s.dispatch.counters.load()
	failed := total - successful
	assert.Greater(s.t, total, uint64(0), "test server exited without being called")
	if failed != 0 {
		assert.Fail(s.t, fmt.Sprintf("numbers of panicked requests: %d", failed), describeFailures(s.dispatch.failures.Err()))
	}
	err := parallelisation.WaitWithTimeout(context.Background(), s.cfg.ShutdownTimeout, s.serving)
	assert.NoError(s.t, err, "test server should not panic")
}

func describeFailures(err error) string {
	if err == nil {
		return "requests are still in flight"
	}
	return err.Error()
}
