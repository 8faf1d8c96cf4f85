// Package ideas implements the idea lifecycle: creation, edits, status
// transitions and cascading deletion.
package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/notify"
	"github.com/d9705996/ideaportal/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/d9705996/ideaportal/internal/ideas")

// ChangeHook is told whenever the set of ideas changes, so derived data such
// as cached analytics can be dropped.
type ChangeHook func(ctx context.Context)

// Service is the idea service.
type Service struct {
	store    *store.Store
	notifier *notify.Service
	onChange ChangeHook
	log      *slog.Logger
}

// New creates a Service. onChange may be nil.
func New(st *store.Store, notifier *notify.Service, onChange ChangeHook, log *slog.Logger) *Service {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &Service{store: st, notifier: notifier, onChange: onChange, log: log}
}

// CreateInput is the payload for Create.
type CreateInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Department  model.Department `json:"department"`
}

func (in *CreateInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.Department == "" {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !in.Department.Valid() {
		return invalidDepartment(in.Department)
	}
	return nil
}

// UpdateInput carries the editable fields. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Department  *model.Department `json:"department"`
}

func (in *UpdateInput) fields() (map[string]any, error) {
	fields := map[string]any{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		fields["title"] = t
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		c := strings.TrimSpace(*in.Category)
		if c == "" {
			return nil, apperr.Validation("category must not be empty")
		}
		fields["category"] = c
	}
	if in.Department != nil {
		if !in.Department.Valid() {
			return nil, invalidDepartment(*in.Department)
		}
		fields["department"] = *in.Department
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}
	return fields, nil
}

func invalidDepartment(d model.Department) error {
	valid := make([]string, len(model.Departments))
	for i, v := range model.Departments {
		valid[i] = string(v)
	}
	return apperr.Validation("invalid department %q: must be one of %s", d, strings.Join(valid, ", "))
}

// Create stores a new idea authored by authorID with status pending.
func (s *Service) Create(ctx context.Context, in CreateInput, authorID string) (*store.IdeaSummary, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	idea := &model.Idea{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Department:  in.Department,
		AuthorID:    authorID,
		Status:      model.StatusPending,
	}
	if err := s.store.CreateIdea(ctx, idea); err != nil {
		return nil, fmt.Errorf("create idea: %w", err)
	}
	metrics.IdeaCreated(string(idea.Department))
	s.onChange(ctx)
	s.log.InfoContext(ctx, "idea created", "idea_id", idea.ID, "author_id", authorID, "department", idea.Department)
	return &store.IdeaSummary{Idea: *idea}, nil
}

// Get returns one idea with counts.
func (s *Service) Get(ctx context.Context, id uint) (*store.IdeaSummary, error) {
	return s.store.GetIdeaSummary(ctx, id)
}

// Filter narrows List.
type Filter struct {
	Department model.Department
	Status     model.Status
}

// List returns ideas newest first, each with live like and comment counts.
func (s *Service) List(ctx context.Context, f Filter) ([]store.IdeaSummary, error) {
	if f.Department != "" && !f.Department.Valid() {
		return nil, invalidDepartment(f.Department)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("invalid status %q", f.Status)
	}
	out, err := s.store.ListIdeas(ctx, store.IdeaFilter{Department: f.Department, Status: f.Status})
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return out, nil
}

// Update edits an idea. Only its author may do so.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput, callerID string) (*store.IdeaSummary, error) {
	idea, err := s.store.GetIdea(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea.AuthorID != callerID {
		return nil, apperr.Forbidden("only the author may edit idea %d", id)
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateIdea(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update idea: %w", err)
	}
	s.onChange(ctx)
	return s.store.GetIdeaSummary(ctx, id)
}

// SetStatus moves an idea to status and notifies its author. Any status may
// follow any other. The update and the notification commit together.
func (s *Service) SetStatus(ctx context.Context, id uint, status model.Status, callerID string) (*store.IdeaSummary, error) {
	ctx, span := tracer.Start(ctx, "ideas.SetStatus")
	defer span.End()
	span.SetAttributes(attribute.Int("idea.id", int(id)), attribute.String("idea.status", string(status)))

	if !status.Valid() {
		return nil, apperr.Validation("invalid status %q", status)
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		idea, err := tx.GetIdea(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.UpdateIdea(ctx, id, map[string]any{"status": status}); err != nil {
			return err
		}
		ideaID := idea.ID
		_, err = s.notifier.Notify(ctx, tx, idea.AuthorID, &ideaID,
			notify.StatusChangeMessage(idea.Title, status), model.NotificationStatusChange)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("set status: %w", err)
	}
	metrics.StatusChanged(string(status))
	metrics.NotificationCreated(model.NotificationStatusChange)
	s.onChange(ctx)
	s.log.InfoContext(ctx, "idea status changed", "idea_id", id, "status", status, "by", callerID)
	return s.store.GetIdeaSummary(ctx, id)
}

// Delete removes an idea and every like, comment, notification and note
// that references it, all in one transaction. Only the author may delete.
func (s *Service) Delete(ctx context.Context, id uint, callerID string) error {
	ctx, span := tracer.Start(ctx, "ideas.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int("idea.id", int(id)))

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		idea, err := tx.GetIdea(ctx, id)
		if err != nil {
			return err
		}
		if idea.AuthorID != callerID {
			return apperr.Forbidden("only the author may delete idea %d", id)
		}
		if err := tx.DeleteLikesByIdea(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteCommentsByIdea(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteNotificationsByIdea(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteNotesByIdea(ctx, id); err != nil {
			return err
		}
		return tx.DeleteIdea(ctx, id)
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete idea: %w", err)
	}
	metrics.IdeaDeleted()
	s.onChange(ctx)
	s.log.InfoContext(ctx, "idea deleted", "idea_id", id, "by", callerID)
	return nil
}
