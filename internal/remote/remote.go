// Package remote provides the generic plumbing every feature repository
// is built from: one data-source call, wrapped by failure normalization,
// followed by DTO-to-entity mapping. Feature packages supply the typed
// pieces; no DTO type crosses a repository boundary.
package remote

import (
	"context"

	"github.com/starford/ansuz/internal/failure"
)

// Fetch runs one data-source call and maps the resulting DTO to an
// entity. check, when non-nil, is the fail-closed schema check applied
// before mapping; a check error becomes a Parsing failure. Mapping
// itself is pure and never fails.
func Fetch[D, E any](ctx context.Context, fallback string, fetch func(context.Context) (D, error), check func(D) error, toEntity func(D) E) (E, error) {
	var zero E
	dto, err := fetch(ctx)
	if err != nil {
		return zero, failure.Normalize(err, fallback)
	}
	if check != nil {
		if err := check(dto); err != nil {
			return zero, failure.New(failure.Parsing, fallback+": "+err.Error())
		}
	}
	return toEntity(dto), nil
}

// FetchList is Fetch for list-shaped responses. check is applied to
// every element before any mapping happens, so a single malformed
// element fails the whole call closed.
func FetchList[D, E any](ctx context.Context, fallback string, fetch func(context.Context) ([]D, error), check func(D) error, toEntity func(D) E) ([]E, error) {
	dtos, err := fetch(ctx)
	if err != nil {
		return nil, failure.Normalize(err, fallback)
	}
	if check != nil {
		for _, dto := range dtos {
			if err := check(dto); err != nil {
				return nil, failure.New(failure.Parsing, fallback+": "+err.Error())
			}
		}
	}
	out := make([]E, len(dtos))
	for i, dto := range dtos {
		out[i] = toEntity(dto)
	}
	return out, nil
}

// Exec runs one data-source call that produces no value.
func Exec(ctx context.Context, fallback string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		return failure.Normalize(err, fallback)
	}
	return nil
}
