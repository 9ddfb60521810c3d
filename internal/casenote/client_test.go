package casenote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/store"
	"github.com/xyston/caseload/internal/viability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClientMissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{APIKey: "  "}, nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if gotKey == "" {
			gotKey = r.Header.Get("X-Goog-Api-Key")
		}
		var req struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Executive Summary: "},{"text":"stable.\n"}]}}]}`)
	})

	text, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Executive Summary: stable." {
		t.Errorf("text = %q", text)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if gotPrompt != "hello" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestGenerateEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[]}`)
	})
	text, err := c.Generate(context.Background(), "x")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != NoContent {
		t.Errorf("text = %q, want %q", text, NoContent)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, tt.status, `{"error":{"code":`+strconv.Itoa(tt.status)+`,"message":"nope"}}`)
		})
		_, err := c.Generate(context.Background(), "x")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`)
	})
	_, err := c.Generate(context.Background(), "x")
	if err == nil || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited) {
		t.Errorf("500: err = %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := viability.Compute(model.Participant{
		Name: "Jane Citizen", Level: model.Level2, Rate: 100.14, Balance: 1000, Hours: 5, PlanEnd: "2025-12-31",
	}, today)

	p := BuildPrompt(m)
	for _, want := range []string{
		"Senior NDIS Support Coordinator",
		"Jane Citizen",
		"Status: CRITICAL SHORTFALL",
		"Balance: $1000.00",
		"Weekly Burn: $500.70",
		"Plan Ends: 31/12/2025",
		"Shortfall (surplus -25036.40)",
		"Australian English",
		"3 Recommendations",
		"Max 200 words",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

type fakeGen struct {
	text string
	err  error
}

func (f fakeGen) Generate(context.Context, string) (string, error) { return f.text, f.err }

type savedNote struct{ id, notes string }

type fakeStore struct {
	saved []savedNote
	err   error
}

func (s *fakeStore) UpdateNotes(id, notes string) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, savedNote{id, notes})
	return nil
}

func TestWrite(t *testing.T) {
	m := model.Metrics{Participant: model.Participant{ID: "a", Name: "Jane", Notes: "old"}}

	st := &fakeStore{}
	text, err := Write(context.Background(), fakeGen{text: "new note"}, st, m)
	if err != nil || text != "new note" {
		t.Fatalf("Write = %q, %v", text, err)
	}
	if len(st.saved) != 1 || st.saved[0].notes != "new note" || st.saved[0].id != "a" {
		t.Errorf("saved = %+v", st.saved)
	}

	st = &fakeStore{}
	if _, err := Write(context.Background(), fakeGen{err: ErrRateLimited}, st, m); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v", err)
	}
	if len(st.saved) != 0 {
		t.Error("notes saved despite generation failure")
	}
}

// editingGen changes the stored balance while the note is being generated.
type editingGen struct {
	r  *store.Roster
	id string
}

func (g editingGen) Generate(context.Context, string) (string, error) {
	p, err := g.r.Get(g.id)
	if err != nil {
		return "", err
	}
	p.Balance = 2000
	return "AI note", g.r.Update(p)
}

func TestWriteKeepsConcurrentBalanceEdit(t *testing.T) {
	r, err := store.Open(filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	p := model.Participant{ID: "p1", Name: "Jane", Level: model.Level2, Rate: 100.14,
		Budget: 18000, Balance: 15000, PlanEnd: "2026-12-31", Hours: 1.5}
	if err := r.Insert(p); err != nil {
		t.Fatal(err)
	}
	m := viability.Compute(p, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, err := Write(context.Background(), editingGen{r: r, id: "p1"}, r, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := r.Get("p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != 2000 {
		t.Errorf("balance = %v, want the 2000 edited during generation", got.Balance)
	}
	if got.Notes != "AI note" {
		t.Errorf("notes = %q", got.Notes)
	}
}

func TestClassifyWrapsUnknownErrors(t *testing.T) {
	err := classify(errors.New("dial tcp: refused"))
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited) {
		t.Errorf("network error classified as %v", err)
	}
	if !strings.Contains(err.Error(), "refused") {
		t.Errorf("err = %v", err)
	}
}
