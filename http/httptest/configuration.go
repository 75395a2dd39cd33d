/*
 * Copyright (C) 2020-2026 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */
package httptest

import (
	"time"

	"github.com/go-logr/logr"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultShutdownTimeout   = 3 * time.Second
	DefaultReadHeaderTimeout = time.Minute
)

type Configuration struct {
	// Bound on the graceful shutdown and on the wait for the server to stop when the server is disposed of.
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	// Logger used for server events. If not set, a test logger is used when possible.
	Logger *logr.Logger
}

func (cfg *Configuration) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.ShutdownTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&cfg.ReadHeaderTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		ShutdownTimeout:   DefaultShutdownTimeout,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
}

type Option func(*Configuration)

// WithShutdownTimeout changes how long disposal waits for the server to drain and stop.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(cfg *Configuration) {
		cfg.ShutdownTimeout = timeout
	}
}

func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(cfg *Configuration) {
		cfg.ReadHeaderTimeout = timeout
	}
}

func WithLogger(logger logr.Logger) Option {
	return func(cfg *Configuration) {
		cfg.Logger = &logger
	}
}

func newConfiguration(opts ...Option) *Configuration {
	cfg := DefaultConfiguration()
	for i := range opts {
		if opts[i] != nil {
			opts[i](cfg)
		}
	}
	return cfg
}
