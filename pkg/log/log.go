// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package log provides a simple leveled logger used throughout this
// repository instead of the bare standard library `log` package.
//
// Levels are gated by redirecting the underlying writer to io.Discard,
// not by branching inside each call site; a *log.Logger whose writer is
// io.Discard returns without formatting, so a dropped message costs only
// the evaluation of its arguments.
package log

import (
	"io"
	"log"
	"os"
)

var (
	DebugWriter io.Writer = os.Stderr
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix string = "[DEBUG] "
	InfoPrefix  string = "[INFO]  "
	WarnPrefix  string = "[WARN]  "
	ErrPrefix   string = "[ERROR] "
)

var (
	debugLog *log.Logger = log.New(DebugWriter, DebugPrefix, 0)
	infoLog  *log.Logger = log.New(InfoWriter, InfoPrefix, 0)
	warnLog  *log.Logger = log.New(WarnWriter, WarnPrefix, 0)
	errLog   *log.Logger = log.New(ErrWriter, ErrPrefix, log.Lshortfile)
)

// SetLevel sets the minimum level that is actually written; everything
// below it is redirected to io.Discard. Valid values: "debug", "info",
// "warn", "err".
func SetLevel(lvl string) {
	switch lvl {
	case "err", "error":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		InfoWriter = io.Discard
		fallthrough
	case "info":
		DebugWriter = io.Discard
	case "debug":
		// nothing discarded
	}

	debugLog.SetOutput(DebugWriter)
	infoLog.SetOutput(InfoWriter)
	warnLog.SetOutput(WarnWriter)
	errLog.SetOutput(ErrWriter)
}

func Debugf(format string, v ...any) { debugLog.Printf(format, v...) }
func Infof(format string, v ...any)  { infoLog.Printf(format, v...) }
func Warnf(format string, v ...any)  { warnLog.Printf(format, v...) }
func Errorf(format string, v ...any) { errLog.Printf(format, v...) }

func Debug(v ...any) { debugLog.Print(v...) }
func Info(v ...any)  { infoLog.Print(v...) }
func Warn(v ...any)  { warnLog.Print(v...) }
func Error(v ...any) { errLog.Print(v...) }

// Fatalf logs at error level and terminates the process. Reserved for
// conditions a single log file or record cannot recover from; per-file
// and per-record errors must never reach this.
func Fatalf(format string, v ...any) {
	errLog.Printf(format, v...)
	os.Exit(1)
}
