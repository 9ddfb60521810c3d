package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/viability"
)

var today = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func metrics() []model.Metrics {
	return viability.ComputeAll([]model.Participant{
		{ID: "a", Name: "Jane Citizen", NDISNumber: "430000001", Level: model.Level2, Rate: 100.14, Balance: 15000, Hours: 1.5, PlanEnd: "2025-12-31", Notes: "Review in March & escalate <soon>"},
		{ID: "b", Name: "Bob Risk", NDISNumber: "430000002", Level: model.Level3, Rate: 190.41, Balance: 1000, Hours: 5, PlanEnd: "2025-12-31"},
	}, today)
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s missing", name)
	return ""
}

// plainText concatenates all w:t elements, one paragraph per line.
func plainText(t *testing.T, docXML string) string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(docXML))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			inText = el.Name.Local == "t"
			if el.Name.Local == "br" {
				b.WriteString("\n")
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				b.WriteString("\n")
			}
			inText = false
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return b.String()
}

func TestWriteCaseload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCaseload(&buf, metrics(), today))

	readPart(t, buf.Bytes(), "[Content_Types].xml")
	readPart(t, buf.Bytes(), "word/styles.xml")
	text := plainText(t, readPart(t, buf.Bytes(), "word/document.xml"))

	for _, want := range []string{
		"XYSTON | Caseload Master Report",
		"Date: 01 January 2025",
		"Confidential: Internal Use Only",
		"Total Participants: 2",
		"Funds Under Management: $16,000.00",
		"• Bob Risk: Runs out on 08/01/25 ($48507 shortfall)",
		"Jane Citizen (430000001)",
		"PLAN HEALTH: ROBUST SURPLUS",
		"PLAN HEALTH: CRITICAL SHORTFALL",
		"Weekly Burn: $150.21 (1.5 hrs/wk)",
		"Plan Ends: 31/12/2025 (52.0 wks left)",
		"Projected Outcome: +$7,189.08",
		"Strategy Notes",
		"Review in March & escalate <soon>",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, 1, strings.Count(text, "Strategy Notes"), "notes heading only for participants with notes")
}

func TestCaseloadColors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCaseload(&buf, metrics(), today))
	doc := readPart(t, buf.Bytes(), "word/document.xml")
	assert.Regexp(t, `<w:color w:val="FF0000"`, doc)
	assert.Regexp(t, `<w:color w:val="2EA043"`, doc)
}

func TestCaseloadEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCaseload(&buf, nil, today))
	text := plainText(t, readPart(t, buf.Bytes(), "word/document.xml"))
	assert.Contains(t, text, "Total Participants: 0")
	assert.Contains(t, text, "No participants are in critical shortfall.")
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "Caseload_Report_2025-01-01.docx", DefaultFilename(today))
}

func TestEmailDraft(t *testing.T) {
	d := EmailDraft(metrics()[0], today)
	assert.Equal(t, "Viability Update: Jane Citizen - 01 Jan 2025", d.Subject)
	assert.Equal(t, "Hi Team,\n\nCurrent Status: ROBUST SURPLUS\nBalance: $15,000.00\nPlan Ends: 31/12/2025\n\nStrategy:\nReview in March & escalate <soon>", d.Body)

	link := d.MailtoURL()
	require.True(t, strings.HasPrefix(link, "mailto:?subject="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, d.Subject, q.Get("subject"))
	assert.Equal(t, d.Body, q.Get("body"))
}
