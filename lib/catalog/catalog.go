// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// Format is the encoding of a catalog file.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unrecognized catalog extension %q (want .json, .jsonc, .jsonl or .yaml)", filepath.Ext(path))
	}
}

// document is the object form of a catalog: resources under a key,
// leaving room for metadata next to them.
type document struct {
	Resources []resource.Resource `json:"resources" yaml:"resources"`
}

// Parse decodes a catalog. JSON, JSONC and YAML catalogs hold either a
// list of resources or an object with a "resources" list. JSONL holds
// one resource object per line; blank lines are skipped.
func Parse(data []byte, format Format) ([]resource.Resource, error) {
	var resources []resource.Resource
	var err error

	switch format {
	case FormatJSON:
		resources, err = parseJSON(data)
	case FormatJSONC:
		resources, err = parseJSON(jsonc.ToJSON(data))
	case FormatJSONL:
		resources, err = parseJSONL(data)
	case FormatYAML:
		resources, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for index, entry := range resources {
		if entry.Name == "" {
			return nil, fmt.Errorf("resource %d: missing name", index)
		}
	}
	return resources, nil
}

func parseJSON(data []byte) ([]resource.Resource, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var resources []resource.Resource
		if err := json.Unmarshal(trimmed, &resources); err != nil {
			return nil, fmt.Errorf("parsing catalog: %w", err)
		}
		return resources, nil
	}
	var parsed document
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return parsed.Resources, nil
}

func parseJSONL(data []byte) ([]resource.Resource, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	// Display names can be long; the default 64KB line limit is not
	// a meaningful bound for a catalog.
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	var resources []resource.Resource
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry resource.Resource
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("line %d: missing name field", lineNumber)
		}
		resources = append(resources, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return resources, nil
}

func parseYAML(data []byte) ([]resource.Resource, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var resources []resource.Resource
		if err := root.Decode(&resources); err != nil {
			return nil, fmt.Errorf("parsing catalog: %w", err)
		}
		return resources, nil
	}
	var parsed document
	if err := root.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return parsed.Resources, nil
}

// ReadFile reads and parses a catalog file, picking the format from its
// extension.
func ReadFile(path string) ([]resource.Resource, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	resources, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resources, nil
}
