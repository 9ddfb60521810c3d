// Package backup saves and restores the whole roster as JSON or YAML.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/xyston/caseload/internal/model"
)

// Format selects the backup encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrInvalid wraps any decode or validation failure.
var ErrInvalid = errors.New("invalid backup")

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Save writes participants as a single list document.
func Save(w io.Writer, ps []model.Participant, f Format) error {
	if ps == nil {
		ps = []model.Participant{}
	}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ps); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ps); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// RateFunc returns the hourly rate for a support level.
type RateFunc func(model.SupportLevel) float64

// Load decodes and validates a backup. Nothing is returned unless the whole
// document is valid, so callers can replace the roster wholesale.
func Load(r io.Reader, f Format, rate RateFunc) ([]model.Participant, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	var ps []model.Participant
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &ps)
	default:
		err = json.Unmarshal(data, &ps)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if ps == nil && strings.TrimSpace(string(data)) != "[]" {
		return nil, fmt.Errorf("%w: expected a list of participants", ErrInvalid)
	}

	seen := make(map[string]int, len(ps))
	for i := range ps {
		p := &ps[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if prev, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: entries %d and %d share id %s", ErrInvalid, prev+1, i+1, p.ID)
		}
		seen[p.ID] = i
		if !finite(p.Budget, p.Balance, p.Hours, p.Rate) {
			return nil, fmt.Errorf("%w: entry %d (%s) has a non-numeric amount", ErrInvalid, i+1, p.Name)
		}
		if p.Budget < 0 || p.Balance < 0 || p.Hours < 0 {
			return nil, fmt.Errorf("%w: entry %d (%s) has a negative amount", ErrInvalid, i+1, p.Name)
		}
		p.Level = model.ParseSupportLevel(string(p.Level))
		if p.Rate <= 0 && rate != nil {
			p.Rate = rate(p.Level)
		}
	}
	if ps == nil {
		ps = []model.Participant{}
	}
	return ps, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
