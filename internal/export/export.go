// Package export renders a trip bundle as a portable document.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tripplan/internal/planner"
)

// Format selects the document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or yaml)", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == YAML {
		return "application/yaml"
	}
	return "application/json"
}

// Write encodes bundle to w.
func Write(w io.Writer, bundle planner.TripBundle, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bundle); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(bundle); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
	return nil
}

// Read decodes a bundle previously produced by Write.
func Read(r io.Reader, f Format) (planner.TripBundle, error) {
	var b planner.TripBundle
	switch f {
	case JSON:
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return planner.TripBundle{}, fmt.Errorf("decoding json: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&b); err != nil {
			return planner.TripBundle{}, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return planner.TripBundle{}, fmt.Errorf("unknown export format %q", f)
	}
	return b, nil
}
