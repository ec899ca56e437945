package notes

import (
	"time"

	"github.com/starford/ansuz/internal/wire"
)

// Note is the domain entity. It carries no wire-format concerns;
// updates produce new values via copy.
type Note struct {
	ID          string
	Title       string
	Content     string
	ContentHTML string
	Tags        []string
	ProjectID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// toEntity maps a DTO to the domain entity. Pure and total.
func toEntity(d noteDTO) Note {
	return Note{
		ID:          d.ID,
		Title:       d.Title,
		Content:     d.Content,
		ContentHTML: d.ContentHTML,
		Tags:        append([]string{}, d.Tags...),
		ProjectID:   d.ProjectID,
		CreatedAt:   d.CreatedAt.Time,
		UpdatedAt:   d.UpdatedAt.Time,
	}
}

// fromEntity maps an entity back to its wire shape. Inverse of toEntity
// up to absent-vs-default normalization.
func fromEntity(n Note) noteDTO {
	return noteDTO{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		ContentHTML: n.ContentHTML,
		Tags:        append(wire.StringList{}, n.Tags...),
		ProjectID:   n.ProjectID,
		CreatedAt:   wire.Time{Time: n.CreatedAt},
		UpdatedAt:   wire.Time{Time: n.UpdatedAt},
	}
}

// Draft is the caller-supplied portion of a new note.
type Draft struct {
	Title     string
	Content   string
	Tags      []string
	ProjectID string
}

func (d Draft) toRequest() createNoteRequest {
	return createNoteRequest{
		Title:     d.Title,
		Content:   d.Content,
		Tags:      append(wire.StringList{}, d.Tags...),
		ProjectID: d.ProjectID,
	}
}

// Patch describes a partial update; nil fields are left unchanged.
type Patch struct {
	Title     *string
	Content   *string
	Tags      *[]string
	ProjectID *string
}

func (p Patch) toRequest() updateNoteRequest {
	req := updateNoteRequest{
		Title:     p.Title,
		Content:   p.Content,
		ProjectID: p.ProjectID,
	}
	if p.Tags != nil {
		tags := append(wire.StringList{}, *p.Tags...)
		req.Tags = &tags
	}
	return req
}
