// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package structschema

import (
	"strconv"
	"strings"
)

// decl is one parsed (but not yet laid-out) declaration from a schema's
// `;`-separated grammar.
type decl struct {
	enumMap       map[int64]string
	typeName      string
	fieldName     string
	bitfieldWidth *uint32
	arrayLength   *uint32
}

// parseDeclarations splits schema text into declarations and parses
// each one's optional enum prefix, type, name, and bit/array suffix.
// Malformed declarations are skipped rather than erroring — the grammar
// has no reserved syntax for "this schema is broken", so (per the
// original implementation) a bad declaration is simply dropped and the
// rest of the schema still compiles.
func parseDeclarations(text string) []decl {
	var out []decl
	for _, segment := range strings.Split(text, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		var enumMap map[int64]string
		if strings.HasPrefix(segment, "enum") {
			open := strings.Index(segment, "{")
			closeIdx := strings.Index(segment, "}")
			if open == -1 || closeIdx == -1 || closeIdx < open {
				continue
			}
			enumMap = parseEnumBody(segment[open+1 : closeIdx])
			segment = strings.TrimSpace(segment[closeIdx+1:])
			if segment == "" {
				continue
			}
		}

		d, ok := parseFieldDecl(segment)
		if !ok {
			continue
		}
		d.enumMap = enumMap
		out = append(out, d)
	}
	return out
}

// parseEnumBody parses a comma-separated `NAME=INT, ...` list. Entries
// whose right-hand side is not an integer are ignored.
func parseEnumBody(body string) map[int64]string {
	m := make(map[int64]string)
	for _, entry := range strings.Split(body, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		val, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			continue
		}
		m[val] = name
	}
	return m
}

// parseFieldDecl parses "TYPE NAME", "TYPE NAME:BITS" or "TYPE NAME[N]".
func parseFieldDecl(segment string) (decl, bool) {
	fields := strings.Fields(segment)
	if len(fields) != 2 {
		return decl{}, false
	}
	typeName := fields[0]
	nameToken := fields[1]

	d := decl{typeName: typeName}

	if idx := strings.IndexByte(nameToken, ':'); idx >= 0 {
		width, err := strconv.ParseUint(nameToken[idx+1:], 10, 32)
		if err != nil {
			return decl{}, false
		}
		w := uint32(width)
		d.fieldName = nameToken[:idx]
		d.bitfieldWidth = &w
		return d, true
	}

	if idx := strings.IndexByte(nameToken, '['); idx >= 0 {
		end := strings.IndexByte(nameToken, ']')
		if end < idx {
			return decl{}, false
		}
		n, err := strconv.ParseUint(nameToken[idx+1:end], 10, 32)
		if err != nil {
			return decl{}, false
		}
		ln := uint32(n)
		d.fieldName = nameToken[:idx]
		d.arrayLength = &ln
		return d, true
	}

	d.fieldName = nameToken
	return d, true
}
