// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package runtimeenv provides a small .env-style override reader plus
// helpers that read override variables from the environment. The CLI
// uses LogLevel for its default log level; Workers parses a worker count
// that the CLI does not read.
package runtimeenv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadEnv reads a very simple .env file and adds every variable
// definition it finds directly to the process environment.
func LoadEnv(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	s := bufio.NewScanner(bufio.NewReader(f))
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, "#") || len(line) == 0 {
			continue
		}
		if strings.Contains(line, "#") {
			return errors.New("'#' is only supported at the start of a line")
		}

		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("runtimeenv: unsupported line: %#v", line)
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if strings.HasPrefix(val, "\"") {
			if !strings.HasSuffix(val, "\"") {
				return fmt.Errorf("runtimeenv: unsupported line: %#v", line)
			}

			runes := []rune(val[1 : len(val)-1])
			sb := strings.Builder{}
			for i := 0; i < len(runes); i++ {
				if runes[i] == '\\' {
					i++
					switch runes[i] {
					case 'n':
						sb.WriteRune('\n')
					case 'r':
						sb.WriteRune('\r')
					case 't':
						sb.WriteRune('\t')
					case '"':
						sb.WriteRune('"')
					default:
						return fmt.Errorf("runtimeenv: unsupported escape sequence: backslash %#v", runes[i])
					}
					continue
				}
				sb.WriteRune(runes[i])
			}
			val = sb.String()
		}

		os.Setenv(key, val)
	}
	return s.Err()
}

// LogLevel returns the LOG_ANALYZER_LOG_LEVEL override, or def if unset.
func LogLevel(def string) string {
	if v := os.Getenv("LOG_ANALYZER_LOG_LEVEL"); v != "" {
		return v
	}
	return def
}

// Workers returns the LOG_ANALYZER_WORKERS override, or def if unset or
// not a positive integer.
func Workers(def int) int {
	v := os.Getenv("LOG_ANALYZER_WORKERS")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
