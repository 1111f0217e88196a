// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/HuskieRobotics/log-analyzer/pkg/log"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchemaFile(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	// "embedFS://schemas/x.json" parses to host "schemas", path "/x.json".
	return schemaFiles.Open(u.Host + u.Path)
}

func init() {
	// url.Parse lowercases the scheme, and jsonschema looks loaders up by it.
	jsonschema.Loaders["embedfs"] = loadSchemaFile
}

// validate checks raw (the analysis config JSON, §6.3) against the
// embedded JSON Schema before decoding it into a Go struct.
func validate(raw []byte) error {
	s, err := jsonschema.Compile("embedFS://schemas/analysis-config.schema.json")
	if err != nil {
		return fmt.Errorf("config: compile embedded schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Errorf("[CONFIG]> failed to decode analysis config for validation: %s", err)
		return fmt.Errorf("config: decode for validation: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config: schema validation failed: %w", err)
	}
	return nil
}
