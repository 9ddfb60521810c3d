package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xyston/caseload/internal/model"
)

func openTest(t *testing.T) *Roster {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "sub", "roster.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sample(id, name string) model.Participant {
	return model.Participant{
		ID:         id,
		Name:       name,
		NDISNumber: "43" + id,
		Level:      model.Level2,
		Rate:       100.14,
		Budget:     18000,
		Balance:    15000,
		PlanEnd:    "2025-12-31",
		Hours:      1.5,
	}
}

func TestInsertListOrder(t *testing.T) {
	r := openTest(t)
	if err := r.InsertMany([]model.Participant{sample("b1", "Zed"), sample("a1", "Amy")}); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
	if err := r.Insert(sample("c1", "Cal")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ps, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Zed", "Amy", "Cal"}
	if len(ps) != len(want) {
		t.Fatalf("got %d participants, want %d", len(ps), len(want))
	}
	for i, p := range ps {
		if p.Name != want[i] {
			t.Errorf("ps[%d].Name = %q, want %q", i, p.Name, want[i])
		}
	}
	if ps[0].Level != model.Level2 || ps[0].Rate != 100.14 || ps[0].PlanEnd != "2025-12-31" {
		t.Errorf("round trip mismatch: %+v", ps[0])
	}
	if ps[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestInsertManyIsAtomic(t *testing.T) {
	r := openTest(t)
	err := r.InsertMany([]model.Participant{sample("a1", "Amy"), sample("a1", "Dup")})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	n, err := r.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d after failed insert, want 0", n)
	}
}

func TestUpdateLogsBalance(t *testing.T) {
	r := openTest(t)
	p := sample("a1", "Amy")
	if err := r.Insert(p); err != nil {
		t.Fatal(err)
	}

	p.Notes = "note only"
	if err := r.Update(p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	p.Balance = 12000
	if err := r.Update(p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := r.Get("a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Balance != 12000 || got.Notes != "note only" {
		t.Errorf("Get = %+v", got)
	}

	hist, err := r.BalanceHistory("a1")
	if err != nil {
		t.Fatalf("BalanceHistory: %v", err)
	}
	if len(hist) != 2 || hist[0].Balance != 15000 || hist[1].Balance != 12000 {
		t.Errorf("history = %+v, want [15000 12000]", hist)
	}
}

func TestUpdateNotesKeepsOtherColumns(t *testing.T) {
	r := openTest(t)
	if err := r.Insert(sample("a1", "Amy")); err != nil {
		t.Fatal(err)
	}

	// A balance edit lands between reading the participant and saving a note.
	edited, err := r.Get("a1")
	if err != nil {
		t.Fatal(err)
	}
	edited.Balance = 2000
	if err := r.Update(edited); err != nil {
		t.Fatalf("Update: %v", err)
	}
	before, _ := r.Revision()

	if err := r.UpdateNotes("a1", "AI note"); err != nil {
		t.Fatalf("UpdateNotes: %v", err)
	}

	got, err := r.Get("a1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != 2000 || got.Notes != "AI note" {
		t.Errorf("after UpdateNotes: balance=%v notes=%q, want 2000 and AI note", got.Balance, got.Notes)
	}
	hist, _ := r.BalanceHistory("a1")
	if len(hist) != 2 {
		t.Errorf("balance log has %d entries, want 2", len(hist))
	}
	if after, _ := r.Revision(); after <= before {
		t.Errorf("revision %d did not increase from %d", after, before)
	}

	if err := r.UpdateNotes("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateNotes missing: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	r := openTest(t)
	err := r.Update(sample("nope", "Nobody"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	r := openTest(t)
	if err := r.Insert(sample("a1", "Amy")); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete("a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get("a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	hist, err := r.BalanceHistory("a1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Errorf("history survived delete: %+v", hist)
	}
	if err := r.Delete("a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v", err)
	}
}

func TestReplaceAllAndReset(t *testing.T) {
	r := openTest(t)
	if err := r.InsertMany([]model.Participant{sample("a1", "Amy"), sample("b1", "Bob")}); err != nil {
		t.Fatal(err)
	}
	if err := r.ReplaceAll([]model.Participant{sample("c1", "Cal")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	ps, _ := r.List()
	if len(ps) != 1 || ps[0].ID != "c1" {
		t.Fatalf("after ReplaceAll: %+v", ps)
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := r.Count(); n != 0 {
		t.Errorf("count after reset = %d", n)
	}
}

func TestRevisionIncreases(t *testing.T) {
	r := openTest(t)
	rev0, err := r.Revision()
	if err != nil {
		t.Fatal(err)
	}
	if rev0 != 0 {
		t.Errorf("fresh revision = %d", rev0)
	}
	_ = r.Insert(sample("a1", "Amy"))
	rev1, _ := r.Revision()
	p := sample("a1", "Amy")
	p.Hours = 3
	_ = r.Update(p)
	rev2, _ := r.Revision()
	if rev1 <= rev0 || rev2 <= rev1 {
		t.Errorf("revisions not increasing: %d %d %d", rev0, rev1, rev2)
	}
}

func TestResolve(t *testing.T) {
	r := openTest(t)
	_ = r.InsertMany([]model.Participant{
		sample("abc123", "Jane Citizen"),
		sample("abd456", "John Citizen"),
		sample("xyz789", "Mary Smith"),
	})

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"abc123", "abc123", nil},
		{"xyz", "xyz789", nil},
		{"43abd456", "abd456", nil},
		{"jane citizen", "abc123", nil},
		{"smith", "xyz789", nil},
		{"ab", "", ErrAmbiguous},
		{"citizen", "", ErrAmbiguous},
		{"nobody", "", ErrNotFound},
		{"", "", ErrNotFound},
	}
	for _, tt := range tests {
		p, err := r.Resolve(tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%q) err = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.ref, err)
			continue
		}
		if p.ID != tt.wantID {
			t.Errorf("Resolve(%q) = %s, want %s", tt.ref, p.ID, tt.wantID)
		}
	}
}
