/*
 * Copyright (C) 2020-2026 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package logs bridges standard library loggers onto logr (https://github.com/go-logr/logr) implementations.
package logs

import (
	"io"
	"log"
	"strings"

	"github.com/go-logr/logr"
)

const (
	KeyLogSource    = "source"
	KeyLoggerSource = "logger-source"
)

type logrWriter struct {
	logger  logr.Logger
	isError bool
}

func (w *logrWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	for _, line := range strings.Split(strings.TrimRight(string(p), "\r\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if w.isError {
			w.logger.Error(nil, line)
		} else {
			w.logger.Info(line)
		}
	}
	return
}

// NewInfoWriter returns a writer which logs every line written to it as an information message.
func NewInfoWriter(logger logr.Logger) io.Writer {
	return &logrWriter{logger: logger}
}

// NewErrorWriter returns a writer which logs every line written to it as an error.
func NewErrorWriter(logger logr.Logger) io.Writer {
	return &logrWriter{logger: logger, isError: true}
}

// NewStdErrorLogger returns a standard library logger reporting errors to a logr logger e.g. for use as http.Server.ErrorLog.
func NewStdErrorLogger(logger logr.Logger, loggerSource string) *log.Logger {
	l := logger
	if loggerSource != "" {
		l = l.WithName(loggerSource).WithValues(KeyLoggerSource, loggerSource)
	}
	return log.New(NewErrorWriter(l), "", 0)
}
