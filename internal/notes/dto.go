package notes

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/wire"
)

// noteDTO mirrors the backend's note JSON. Fields are tolerant: absent
// tags decode to an empty list, absent timestamps stay zero.
type noteDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	ContentHTML string          `json:"content_html,omitempty"`
	Tags        wire.StringList `json:"tags"`
	ProjectID   string          `json:"project_id,omitempty"`
	CreatedAt   wire.Time       `json:"created_at"`
	UpdatedAt   wire.Time       `json:"updated_at"`
}

// check is the fail-closed schema check: a persisted note without an id
// is a malformed payload, not a default.
func (d noteDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}

// noteListDTO is the response of GET /api/v1/notes.
type noteListDTO struct {
	Notes []noteDTO `json:"notes"`
	Total int       `json:"total"`
}

// createNoteRequest is the body of POST /api/v1/notes.
type createNoteRequest struct {
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Tags      wire.StringList `json:"tags"`
	ProjectID string          `json:"project_id,omitempty"`
}

// updateNoteRequest is the body of PUT /api/v1/notes/{id}. Nil fields
// are omitted and left untouched by the backend.
type updateNoteRequest struct {
	Title     *string          `json:"title,omitempty"`
	Content   *string          `json:"content,omitempty"`
	Tags      *wire.StringList `json:"tags,omitempty"`
	ProjectID *string          `json:"project_id,omitempty"`
}
