// Package notes manages the ordered sticky notes attached to an idea.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/d9705996/ideaportal/internal/notes")

const maxNotes = 200

// Input is one note in a replace request. ID is chosen by the client; an
// empty ID gets a generated one.
type Input struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Color   string `json:"color"`
}

// Service is the notes service.
type Service struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a Service.
func New(st *store.Store, log *slog.Logger) *Service {
	return &Service{store: st, log: log}
}

// List returns the notes of ideaID in display order.
func (s *Service) List(ctx context.Context, ideaID uint) ([]model.Note, error) {
	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}
	out, err := s.store.ListNotes(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return out, nil
}

// Replace swaps the whole note set of ideaID for in, in order. Only the
// idea's author may do this. Either every old note is replaced or nothing
// changes.
func (s *Service) Replace(ctx context.Context, ideaID uint, in []Input, callerID string) ([]model.Note, error) {
	ctx, span := tracer.Start(ctx, "notes.Replace")
	defer span.End()
	span.SetAttributes(attribute.Int("idea.id", int(ideaID)), attribute.Int("notes.count", len(in)))

	rows, err := toRows(ideaID, in)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		idea, err := tx.GetIdea(ctx, ideaID)
		if err != nil {
			return err
		}
		if idea.AuthorID != callerID {
			return apperr.Forbidden("only the author may edit the notes of idea %d", ideaID)
		}
		if err := tx.DeleteNotesByIdea(ctx, ideaID); err != nil {
			return err
		}
		return tx.CreateNotes(ctx, rows)
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("replace notes: %w", err)
	}
	metrics.NotesReplaced(len(rows))
	s.log.DebugContext(ctx, "notes replaced", "idea_id", ideaID, "count", len(rows))
	return rows, nil
}

func toRows(ideaID uint, in []Input) ([]model.Note, error) {
	if len(in) > maxNotes {
		return nil, apperr.Validation("at most %d notes are allowed", maxNotes)
	}
	seen := make(map[string]struct{}, len(in))
	rows := make([]model.Note, 0, len(in))
	for i, n := range in {
		id := strings.TrimSpace(n.ID)
		if id != "" {
			if _, dup := seen[id]; dup {
				return nil, apperr.Validation("duplicate note id %q", id)
			}
			seen[id] = struct{}{}
		}
		rows = append(rows, model.Note{
			ID:      id,
			IdeaID:  ideaID,
			Content: n.Content,
			Color:   n.Color,
			Order:   i,
		})
	}
	return rows, nil
}
