// Package store provides the SQLite-backed participant roster.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xyston/caseload/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	// ErrNotFound is returned when no participant matches a reference.
	ErrNotFound = errors.New("participant not found")
	// ErrAmbiguous is returned when a reference matches more than one participant.
	ErrAmbiguous = errors.New("participant reference is ambiguous")
)

const participantCols = `id, name, ndis_number, level, rate, budget, balance, plan_end, hours, notes, created_at, updated_at`

// Roster is the persistent participant list.
type Roster struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the roster database at the given path.
func Open(dbPath string) (*Roster, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening roster db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Roster{db: db, now: time.Now}, nil
}

// Close closes the roster database.
func (r *Roster) Close() error {
	return r.db.Close()
}

// List returns all participants in insertion order.
func (r *Roster) List() ([]model.Participant, error) {
	rows, err := r.db.Query("SELECT " + participantCols + " FROM participants ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of participants.
func (r *Roster) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM participants").Scan(&n)
	return n, err
}

// Get returns the participant with the exact id.
func (r *Roster) Get(id string) (model.Participant, error) {
	row := r.db.QueryRow("SELECT "+participantCols+" FROM participants WHERE id = ?", id)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// Resolve finds a participant by exact id, unique id prefix, NDIS number or
// case-insensitive name (exact first, then substring).
func (r *Roster) Resolve(ref string) (model.Participant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Participant{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if p, err := r.Get(ref); err == nil {
		return p, nil
	}

	all, err := r.List()
	if err != nil {
		return model.Participant{}, err
	}

	lower := strings.ToLower(ref)
	matchers := []func(model.Participant) bool{
		func(p model.Participant) bool { return p.NDISNumber == ref },
		func(p model.Participant) bool { return strings.HasPrefix(p.ID, ref) },
		func(p model.Participant) bool { return strings.ToLower(p.Name) == lower },
		func(p model.Participant) bool { return strings.Contains(strings.ToLower(p.Name), lower) },
	}
	for _, match := range matchers {
		var hits []model.Participant
		for _, p := range all {
			if match(p) {
				hits = append(hits, p)
			}
		}
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0], nil
		default:
			names := make([]string, len(hits))
			for i, h := range hits {
				names[i] = h.Name
			}
			return model.Participant{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, ref, strings.Join(names, ", "))
		}
	}
	return model.Participant{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Insert adds one participant.
func (r *Roster) Insert(p model.Participant) error {
	return r.InsertMany([]model.Participant{p})
}

// InsertMany appends participants in a single transaction. Either all rows
// are written or none are.
func (r *Roster) InsertMany(ps []model.Participant) error {
	if len(ps) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.insertTx(tx, ps); err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceAll swaps the whole roster for ps atomically.
func (r *Roster) ReplaceAll(ps []model.Participant) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM participants"); err != nil {
		return fmt.Errorf("clearing roster: %w", err)
	}
	if err := r.insertTx(tx, ps); err != nil {
		return err
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Reset deletes every participant and its balance history.
func (r *Roster) Reset() error {
	return r.ReplaceAll(nil)
}

// Update overwrites an existing participant. A changed balance is appended
// to the balance log.
func (r *Roster) Update(p model.Participant) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var prev float64
	err = tx.QueryRow("SELECT balance FROM participants WHERE id = ?", p.ID).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	if err != nil {
		return err
	}

	now := r.now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`UPDATE participants SET
		name = ?, ndis_number = ?, level = ?, rate = ?, budget = ?, balance = ?,
		plan_end = ?, hours = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.NDISNumber, string(p.Level), p.Rate, p.Budget, p.Balance,
		p.PlanEnd, p.Hours, p.Notes, now, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s: %w", p.ID, err)
	}

	if prev != p.Balance {
		if _, err := tx.Exec("INSERT INTO balance_log (participant_id, balance, recorded_at) VALUES (?, ?, ?)",
			p.ID, p.Balance, now); err != nil {
			return err
		}
	}

	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateNotes replaces only the notes of a participant, leaving every other
// column as it is now in the store.
func (r *Roster) UpdateNotes(id, notes string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now().UTC().Format(time.RFC3339)
	res, err := tx.Exec("UPDATE participants SET notes = ?, updated_at = ? WHERE id = ?", notes, now, id)
	if err != nil {
		return fmt.Errorf("updating notes of %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a participant.
func (r *Roster) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM participants WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := bumpRevision(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Revision returns a counter that increases on every write.
func (r *Roster) Revision() (int64, error) {
	var rev int64
	err := r.db.QueryRow("SELECT value FROM roster_meta WHERE key = 'revision'").Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}

// BalanceHistory returns the recorded balances for a participant, oldest first.
func (r *Roster) BalanceHistory(id string) ([]model.BalanceEntry, error) {
	rows, err := r.db.Query(`SELECT balance, recorded_at FROM balance_log
		WHERE participant_id = ? ORDER BY recorded_at, rowid`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.BalanceEntry
	for rows.Next() {
		var e model.BalanceEntry
		var at string
		if err := rows.Scan(&e.Balance, &at); err != nil {
			return nil, err
		}
		e.ParticipantID = id
		e.RecordedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Roster) insertTx(tx *sql.Tx, ps []model.Participant) error {
	var seq int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM participants").Scan(&seq); err != nil {
		return err
	}

	now := r.now().UTC().Format(time.RFC3339)
	for _, p := range ps {
		if p.ID == "" {
			return fmt.Errorf("participant %q has no id", p.Name)
		}
		seq++
		_, err := tx.Exec(`INSERT INTO participants (seq, `+participantCols+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seq, p.ID, p.Name, p.NDISNumber, string(p.Level), p.Rate, p.Budget, p.Balance,
			p.PlanEnd, p.Hours, p.Notes, now, now,
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", p.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO balance_log (participant_id, balance, recorded_at) VALUES (?, ?, ?)",
			p.ID, p.Balance, now); err != nil {
			return err
		}
	}
	return nil
}

func bumpRevision(tx *sql.Tx) error {
	_, err := tx.Exec(`INSERT INTO roster_meta (key, value) VALUES ('revision', 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(s scanner) (model.Participant, error) {
	var p model.Participant
	var level string
	var notes sql.NullString
	var created, updated string
	err := s.Scan(&p.ID, &p.Name, &p.NDISNumber, &level, &p.Rate, &p.Budget, &p.Balance,
		&p.PlanEnd, &p.Hours, &notes, &created, &updated)
	if err != nil {
		return p, err
	}
	p.Level = model.SupportLevel(level)
	p.Notes = notes.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return p, nil
}
