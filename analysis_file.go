package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

// ErrUnknownFormat is returned for report or analysis formats that are not supported.
var ErrUnknownFormat = errors.New("unknown format")

// ErrInvalidAnalysis is returned for analysis files holding values that
// cannot be written into a style definition.
var ErrInvalidAnalysis = errors.New("invalid analysis")

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatTOML     = "toml"
)

var formats = []string{formatText, formatMarkdown, formatHTML, formatJSON, formatYAML, formatTOML}

// formatFromExtension picks the analysis file format by extension.
func formatFromExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "extension of %s", path)
}

func encodeAnalysis(w io.Writer, a *analysis, format string) error {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return errors.Wrap(err, "json encoding")
		}
		_, err = w.Write(append(b, '\n'))
		return err

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return errors.Wrap(err, "yaml encoding")
		}
		return enc.Close()

	case formatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(a), "toml encoding")
	}

	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

func decodeAnalysis(b []byte, format string) (*analysis, error) {
	var a analysis
	switch format {
	case formatJSON:
		if err := json.Unmarshal(b, &a); err != nil {
			return nil, errors.Wrap(err, "json decoding")
		}
	case formatYAML:
		if err := yaml.Unmarshal(b, &a); err != nil {
			return nil, errors.Wrap(err, "yaml decoding")
		}
	case formatTOML:
		if _, err := toml.DecodeReader(bytes.NewReader(b), &a); err != nil {
			return nil, errors.Wrap(err, "toml decoding")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return &a, nil
}

// loadAnalysis reads an analysis saved by "analyze --format json|yaml|toml".
func loadAnalysis(path string) (*analysis, error) {
	format, err := formatFromExtension(path)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read analysis %s", path)
	}

	a, err := decodeAnalysis(b, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load analysis %s", path)
	}
	if err := a.normalize(); err != nil {
		return nil, errors.Wrapf(err, "load analysis %s", path)
	}
	return a, nil
}

// normalize brings hand-edited summaries to the form analysis produces:
// trimmed NFC font names and RRGGBB or "auto" colors.
func (a *analysis) normalize() error {
	for i := range a.Styles {
		s := &a.Styles[i]

		s.StyleID = strings.TrimSpace(s.StyleID)
		if s.StyleID == "" {
			return errors.Wrapf(ErrInvalidAnalysis, "style #%d: empty style_id", i+1)
		}

		if s.Font != "" {
			font := wordml.NormalizeFont(s.Font)
			if font == "" {
				return errors.Wrapf(ErrInvalidAnalysis, "style %s: blank font", s.StyleID)
			}
			s.Font = font
		}

		if s.Color != "" {
			color, ok := wordml.NormalizeColor(s.Color)
			if !ok {
				return errors.Wrapf(ErrInvalidAnalysis, "style %s: color %q", s.StyleID, s.Color)
			}
			s.Color = color
		}
	}
	return nil
}
