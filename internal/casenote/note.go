package casenote

import (
	"context"
	"fmt"

	"github.com/xyston/caseload/internal/model"
)

// NoteStore saves a participant's notes without touching other fields.
type NoteStore interface {
	UpdateNotes(id, notes string) error
}

// Write drafts a strategy note for m and stores it as the participant's
// notes. Existing notes are replaced only when generation and the save both
// succeed.
func Write(ctx context.Context, g Generator, st NoteStore, m model.Metrics) (string, error) {
	text, err := g.Generate(ctx, BuildPrompt(m))
	if err != nil {
		return "", err
	}
	if err := st.UpdateNotes(m.ID, text); err != nil {
		return "", fmt.Errorf("saving note: %w", err)
	}
	return text, nil
}
