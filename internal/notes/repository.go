// Package notes implements the notes vertical: transfer objects,
// entity mapping, and the repository facade over the remote data
// source. Errors leaving this package are always normalized failures.
package notes

import (
	"context"

	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
)

// Fallback messages used when the backend sends no structured error body.
const (
	errList   = "failed to list notes"
	errGet    = "failed to load note"
	errCreate = "failed to create note"
	errUpdate = "failed to update note"
	errDelete = "failed to delete note"
)

// Repository exposes entity-typed note operations. It never retries;
// retry policy belongs to the caller.
type Repository struct {
	ds *dataSource
}

// NewRepository creates a notes repository over a transport client.
func NewRepository(c *transport.Client) *Repository {
	return &Repository{ds: &dataSource{c: c}}
}

// List returns a page of notes and the backend's total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Note, int, error) {
	var total int
	items, err := remote.FetchList(ctx, errList,
		func(ctx context.Context) ([]noteDTO, error) {
			res, err := r.ds.list(ctx, limit, offset)
			total = res.Total
			return res.Notes, err
		},
		noteDTO.check, toEntity)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns a single note by id.
func (r *Repository) Get(ctx context.Context, id string) (Note, error) {
	return remote.Fetch(ctx, errGet,
		func(ctx context.Context) (noteDTO, error) { return r.ds.get(ctx, id) },
		noteDTO.check, toEntity)
}

// Create persists a draft and returns the stored entity.
func (r *Repository) Create(ctx context.Context, draft Draft) (Note, error) {
	return remote.Fetch(ctx, errCreate,
		func(ctx context.Context) (noteDTO, error) { return r.ds.create(ctx, draft.toRequest()) },
		noteDTO.check, toEntity)
}

// Update applies a partial patch and returns the stored entity.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (Note, error) {
	return remote.Fetch(ctx, errUpdate,
		func(ctx context.Context) (noteDTO, error) { return r.ds.update(ctx, id, patch.toRequest()) },
		noteDTO.check, toEntity)
}

// Delete removes a note by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return remote.Exec(ctx, errDelete,
		func(ctx context.Context) error { return r.ds.delete(ctx, id) })
}
