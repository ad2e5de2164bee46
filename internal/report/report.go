// Package report renders a finished run for people or for other programs.
package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"schoolnet/cohort/internal/orchestrate"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by New for an unsupported format name
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted format names
func Formats() []string { return []string{FormatText, FormatJSON, FormatYAML} }

// New returns a Reporter writing format to w
func New(format string, w io.Writer) (orchestrate.Reporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return NewText(w), nil
	case FormatJSON:
		return &jsonReporter{w: w}, nil
	case FormatYAML, "yml":
		return &yamlReporter{w: w}, nil
	default:
		return nil, errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", format),
			"use one of: %s", strings.Join(Formats(), ", "))
	}
}

type jsonReporter struct {
	w io.Writer
}

func (r *jsonReporter) Report(rep *orchestrate.Report) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rep), "encoding json report")
}

type yamlReporter struct {
	w io.Writer
}

func (r *yamlReporter) Report(rep *orchestrate.Report) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "encoding yaml report")
	}
	return errors.Wrap(enc.Close(), "flushing yaml report")
}
