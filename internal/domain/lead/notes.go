package lead

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/domain"
)

func (s *Service) notesQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("lead_notes").
		Select("lead_notes.id, lead_notes.lead_id, leads.name AS lead_name, lead_notes.note, " +
			"lead_notes.created_by, users.name AS created_by_name, lead_notes.created_at").
		Joins("JOIN leads ON leads.id = lead_notes.lead_id").
		Joins("LEFT JOIN users ON users.id = lead_notes.created_by")
}

// AddNote attaches a note to a lead of the workspace.
func (s *Service) AddNote(ctx context.Context, workspaceID, leadID, authorID int64, text string) (*NoteView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoteRequired
	}

	lead, err := s.guard.Lead(ctx, workspaceID, leadID)
	if err != nil {
		return nil, err
	}

	note := &domain.LeadNote{LeadID: lead.ID, Note: text, CreatedBy: authorID}
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}

	var view NoteView
	if err := s.notesQuery(ctx).Where("lead_notes.id = ?", note.ID).Scan(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// ListNotes returns the notes of one lead, newest first.
func (s *Service) ListNotes(ctx context.Context, workspaceID, leadID int64) ([]NoteView, error) {
	lead, err := s.guard.Lead(ctx, workspaceID, leadID)
	if err != nil {
		return nil, err
	}

	notes := make([]NoteView, 0)
	err = s.notesQuery(ctx).
		Where("lead_notes.lead_id = ?", lead.ID).
		Order("lead_notes.created_at DESC, lead_notes.id DESC").
		Scan(&notes).Error
	return notes, err
}

// ListWorkspaceNotes returns every note on the workspace's leads.
func (s *Service) ListWorkspaceNotes(ctx context.Context, workspaceID int64) ([]NoteView, error) {
	notes := make([]NoteView, 0)
	err := s.notesQuery(ctx).
		Where("leads.workspace_id = ?", workspaceID).
		Order("lead_notes.created_at DESC, lead_notes.id DESC").
		Scan(&notes).Error
	return notes, err
}

// DeleteNote removes a note whose lead belongs to the workspace.
func (s *Service) DeleteNote(ctx context.Context, workspaceID, noteID int64) error {
	inWorkspace := s.db.Table("leads").Select("id").Where("workspace_id = ?", workspaceID)

	res := s.db.WithContext(ctx).
		Where("id = ? AND lead_id IN (?)", noteID, inWorkspace).
		Delete(&domain.LeadNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
