// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dbpick/lib/codec"
	"github.com/bureau-foundation/dbpick/lib/config"
)

// writeSelection prints selection in format. Text prints one identity
// key per line; the structured formats print the whole record.
func writeSelection(w io.Writer, format config.Format, selection codec.Selection) error {
	switch format {
	case config.FormatText, "":
		keys, err := selection.Keys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if _, err := fmt.Fprintln(w, key); err != nil {
				return err
			}
		}
		return nil

	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(selection)

	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(selection); err != nil {
			return err
		}
		return encoder.Close()

	case config.FormatCBOR:
		return codec.WriteCBOR(w, selection)

	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
