package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"
)

// ErrNoHeader is returned when a CSV has no recognisable header row.
var ErrNoHeader = errors.New("no recognisable header row")

// UnknownParticipant names rows with a blank Name cell.
const UnknownParticipant = "Unknown Participant"

// dateLayouts are tried in order for imported plan end dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// CleanNumber strips "$", "," and whitespace and parses a float.
// Anything unparseable or non-finite (NaN, Inf) becomes 0.
func CleanNumber(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CleanDate normalises a date cell to YYYY-MM-DD, falling back to today.
func CleanDate(s string, today time.Time) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return today.Format("2006-01-02")
}

func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// ParseCSV reads participants from r. A malformed document is an error and
// yields no participants.
func ParseCSV(r io.Reader, opts ParseOptions) ([]model.Participant, int, error) {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Rate == nil {
		opts.Rate = func(l model.SupportLevel) float64 {
			r, _ := config.LookupRate(l)
			return r
		}
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, ErrNoHeader
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		if canon, ok := headerAliases[normaliseHeader(h)]; ok {
			if _, dup := cols[canon]; !dup {
				cols[canon] = i
			}
		}
	}
	if len(cols) == 0 {
		return nil, 0, ErrNoHeader
	}

	var out []model.Participant
	skipped := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			skipped++
			continue
		}
		out = append(out, rowToParticipant(rec, cols, opts))
	}
	return out, skipped, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowToParticipant(rec []string, cols map[string]int, opts ParseOptions) model.Participant {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	name := get(ColName)
	if name == "" {
		name = UnknownParticipant
	}
	level := model.ParseSupportLevel(get(ColLevel))

	return model.Participant{
		ID:         opts.NewID(),
		Name:       name,
		NDISNumber: get(ColNDIS),
		Level:      level,
		Rate:       opts.Rate(level),
		Budget:     CleanNumber(get(ColBudget)),
		Balance:    CleanNumber(get(ColBalance)),
		PlanEnd:    CleanDate(get(ColPlanEnd), opts.Today),
		Hours:      CleanNumber(get(ColHours)),
	}
}

// ParseFile parses one discovered CSV file.
func ParseFile(df DiscoveredFile, opts ParseOptions) ParseResult {
	result := ParseResult{File: df}

	f, err := os.Open(df.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer func() { _ = f.Close() }()

	ps, skipped, err := ParseCSV(f, opts)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", df.Name, err)
		return result
	}
	result.Participants = ps
	result.Skipped = skipped
	result.Rows = len(ps) + skipped
	return result
}
