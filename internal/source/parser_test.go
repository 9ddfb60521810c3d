package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyston/caseload/internal/model"
)

var today = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func opts() ParseOptions {
	return ParseOptions{Today: today, NewID: seqIDs()}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$18,000", 18000},
		{" 15 000.50 ", 15000.5},
		{"1.5", 1.5},
		{"", 0},
		{"n/a", 0},
		{"$", 0},
		{"NaN", 0},
		{"inf", 0},
		{"-Infinity", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanNumber(tt.in), "CleanNumber(%q)", tt.in)
	}
}

func TestCleanDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-12-31", "2025-12-31"},
		{"31/12/2025", "2025-12-31"},
		{"2025/06/30", "2025-06-30"},
		{"30 June 2025", "2025-06-30"},
		{"Jun 30, 2025", "2025-06-30"},
		{"", "2025-03-01"},
		{"whenever", "2025-03-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDate(tt.in, today), "CleanDate(%q)", tt.in)
	}
}

func TestParseCSV(t *testing.T) {
	in := strings.Join([]string{
		"Name,NDIS Number,Support Level,Total Budget,Current Balance,Plan End Date (YYYY-MM-DD),Hours Per Week",
		`Jane Citizen,430000001,Level 3: Specialist Support Coordination,"$30,000","$12,500.50",2025-12-31,2`,
		",430000002,,18000,15000,,1.5",
		",,,,,,",
		"Bob,430000003,level 2,abc,100,31/01/2026,",
	}, "\n")

	ps, skipped, err := ParseCSV(strings.NewReader(in), opts())
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, 1, skipped)

	jane := ps[0]
	assert.Equal(t, "id-1", jane.ID)
	assert.Equal(t, "Jane Citizen", jane.Name)
	assert.Equal(t, model.Level3, jane.Level)
	assert.Equal(t, 190.41, jane.Rate)
	assert.Equal(t, 30000.0, jane.Budget)
	assert.Equal(t, 12500.5, jane.Balance)
	assert.Equal(t, "2025-12-31", jane.PlanEnd)
	assert.Equal(t, 2.0, jane.Hours)

	anon := ps[1]
	assert.Equal(t, UnknownParticipant, anon.Name)
	assert.Equal(t, model.Level2, anon.Level)
	assert.Equal(t, 100.14, anon.Rate)
	assert.Equal(t, "2025-03-01", anon.PlanEnd)

	bob := ps[2]
	assert.Equal(t, 0.0, bob.Budget)
	assert.Equal(t, 0.0, bob.Hours)
	assert.Equal(t, "2026-01-31", bob.PlanEnd)
}

func TestParseCSVHeaderVariants(t *testing.T) {
	in := "\ufeff  name , HOURS PER WEEK,Support Level\nAmy,3,Level 3\n"
	ps, _, err := ParseCSV(strings.NewReader(in), opts())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Amy", ps[0].Name)
	assert.Equal(t, 3.0, ps[0].Hours)
	assert.Equal(t, model.Level3, ps[0].Level)
}

func TestParseCSVCustomRate(t *testing.T) {
	o := opts()
	o.Rate = func(model.SupportLevel) float64 { return 42 }
	ps, _, err := ParseCSV(strings.NewReader("Name\nAmy\n"), o)
	require.NoError(t, err)
	assert.Equal(t, 42.0, ps[0].Rate)
}

func TestParseCSVErrors(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""), opts())
	assert.ErrorIs(t, err, ErrNoHeader)

	_, _, err = ParseCSV(strings.NewReader("foo,bar\n1,2\n"), opts())
	assert.ErrorIs(t, err, ErrNoHeader)

	ps, _, err := ParseCSV(strings.NewReader("Name,Hours Per Week\nAmy,1\nBob,2,extra\n"), opts())
	assert.Error(t, err)
	assert.Nil(t, ps)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	in := []model.Participant{
		{Name: "Jane, Jr", NDISNumber: "430000001", Level: model.Level3, Budget: 30000, Balance: 12500.5, PlanEnd: "2025-12-31", Hours: 2},
		{Name: "Bob", NDISNumber: "430000002", Level: model.Level2, Budget: 18000, Balance: 15000, PlanEnd: "2026-01-31", Hours: 1.5},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, _, err := ParseCSV(&buf, opts())
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, in[i].Level, out[i].Level)
		assert.Equal(t, in[i].Balance, out[i].Balance)
		assert.Equal(t, in[i].PlanEnd, out[i].PlanEnd)
		assert.Equal(t, in[i].Hours, out[i].Hours)
	}
}

func TestTemplateParses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Name,NDIS Number,Support Level,Total Budget,Current Balance,Plan End Date (YYYY-MM-DD),Hours Per Week\n"))

	ps, _, err := ParseCSV(&buf, opts())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "John Doe", ps[0].Name)
	assert.Equal(t, "430123456", ps[0].NDISNumber)
	assert.Equal(t, 1.5, ps[0].Hours)
}

func TestScanDirAndDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(rel string) string {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("Name\nA\n"), 0o600))
		return p
	}
	a := write("a.csv")
	write("nested/b.CSV")
	write("notes.txt")
	write(".hidden/c.csv")

	files, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, "b.CSV", files[1].Name)

	all, err := Discover([]string{a, dir})
	require.NoError(t, err)
	assert.Len(t, all, 2, "duplicate file should be dropped")

	_, err = ScanDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(p, []byte("Name,Current Balance\nAmy,$500\n\n"), 0o600))

	res := ParseFile(DiscoveredFile{Path: p, Name: "roster.csv"}, opts())
	require.NoError(t, res.Err)
	require.Len(t, res.Participants, 1)
	assert.Equal(t, 500.0, res.Participants[0].Balance)

	res = ParseFile(DiscoveredFile{Path: p + ".nope", Name: "nope"}, opts())
	assert.Error(t, res.Err)
}
