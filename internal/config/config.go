// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package config loads and validates the analysis JSON configuration
// (spec §6.3) the way the teacher's internal/config.Init loads its own
// config.json: read the file, validate against an embedded JSON Schema,
// then strict-decode into a typed struct.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/HuskieRobotics/log-analyzer/internal/analysis"
)

// Load reads, validates, and decodes the analysis configuration at
// path. A missing or otherwise unreadable file is a misuse error (§6.4,
// §7 ConfigParseError): callers should treat it as fatal, not as an
// implicit "run with no analyses configured".
func Load(path string) (analysis.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return analysis.Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := validate(raw); err != nil {
		return analysis.Config{}, err
	}

	var cfg analysis.Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return analysis.Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
