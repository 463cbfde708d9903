// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides structured logging for reportchat.
//
// Logs go to a file, never to the terminal: the TUI owns stdout and
// stderr. Before Init the package-level functions are no-ops, so library
// code can log unconditionally.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init configures the package logger to write JSON lines to the given
// file. With debug true the level drops to Debug, otherwise Info.
func Init(path string, debug bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	sugar = log.Sugar()
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = sugar.Sync()
}

// Debug logs a debug message with alternating key/value pairs.
func Debug(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugw(msg, kv...)
}

// Info logs an informational message with alternating key/value pairs.
func Info(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infow(msg, kv...)
}

// Warn logs a warning with alternating key/value pairs.
func Warn(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnw(msg, kv...)
}

// Error logs an error with alternating key/value pairs.
func Error(msg string, kv ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorw(msg, kv...)
}
