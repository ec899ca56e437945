// Package projects implements the projects vertical: DTO/entity
// mapping and the repository facade. Same shape as the notes vertical;
// the list endpoint wraps results in {"projects": [...], "total": n}.
package projects

import (
	"context"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
	"github.com/starford/ansuz/internal/wire"
)

const basePath = "/api/v1/projects"

const (
	errList   = "failed to list projects"
	errGet    = "failed to load project"
	errCreate = "failed to create project"
	errUpdate = "failed to update project"
	errDelete = "failed to delete project"
)

// projectDTO mirrors the backend's project JSON.
type projectDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	Color           string          `json:"color,omitempty"`
	Icon            string          `json:"icon,omitempty"`
	ParentProjectID string          `json:"parent_project_id,omitempty"`
	Tags            wire.StringList `json:"tags"`
	CreatedAt       wire.Time       `json:"created_at"`
	UpdatedAt       wire.Time       `json:"updated_at"`
	CompletedAt     wire.Time       `json:"completed_at"`
	ArchivedAt      wire.Time       `json:"archived_at"`
}

func (d projectDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}

type projectListDTO struct {
	Projects []projectDTO `json:"projects"`
	Total    int          `json:"total"`
}

// Project is the domain entity.
type Project struct {
	ID              string
	Name            string
	Description     string
	Status          string
	Color           string
	Icon            string
	ParentProjectID string
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     time.Time
	ArchivedAt      time.Time
}

func toEntity(d projectDTO) Project {
	return Project{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Status:          d.Status,
		Color:           d.Color,
		Icon:            d.Icon,
		ParentProjectID: d.ParentProjectID,
		Tags:            append([]string{}, d.Tags...),
		CreatedAt:       d.CreatedAt.Time,
		UpdatedAt:       d.UpdatedAt.Time,
		CompletedAt:     d.CompletedAt.Time,
		ArchivedAt:      d.ArchivedAt.Time,
	}
}

func fromEntity(p Project) projectDTO {
	return projectDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Status:          p.Status,
		Color:           p.Color,
		Icon:            p.Icon,
		ParentProjectID: p.ParentProjectID,
		Tags:            append(wire.StringList{}, p.Tags...),
		CreatedAt:       wire.Time{Time: p.CreatedAt},
		UpdatedAt:       wire.Time{Time: p.UpdatedAt},
		CompletedAt:     wire.Time{Time: p.CompletedAt},
		ArchivedAt:      wire.Time{Time: p.ArchivedAt},
	}
}

// Draft is the caller-supplied portion of a new project.
type Draft struct {
	Name            string
	Description     string
	Color           string
	Icon            string
	ParentProjectID string
	Tags            []string
}

type createProjectRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Color           string          `json:"color,omitempty"`
	Icon            string          `json:"icon,omitempty"`
	ParentProjectID string          `json:"parent_project_id,omitempty"`
	Tags            wire.StringList `json:"tags"`
}

// dataSource issues the raw HTTP calls for the projects vertical.
type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) list(ctx context.Context) (projectListDTO, error) {
	var out projectListDTO
	err := ds.c.Get(ctx, basePath, nil, &out)
	return out, err
}

func (ds *dataSource) get(ctx context.Context, id string) (projectDTO, error) {
	var out projectDTO
	err := ds.c.Get(ctx, basePath+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (ds *dataSource) create(ctx context.Context, req createProjectRequest) (projectDTO, error) {
	var out projectDTO
	err := ds.c.Post(ctx, basePath, req, &out)
	return out, err
}

func (ds *dataSource) update(ctx context.Context, id string, req createProjectRequest) (projectDTO, error) {
	var out projectDTO
	err := ds.c.Put(ctx, basePath+"/"+url.PathEscape(id), req, &out)
	return out, err
}

func (ds *dataSource) delete(ctx context.Context, id string) error {
	return ds.c.Delete(ctx, basePath+"/"+url.PathEscape(id), nil, nil)
}

// Repository exposes entity-typed project operations.
type Repository struct {
	ds *dataSource
}

// NewRepository creates a projects repository over a transport client.
func NewRepository(c *transport.Client) *Repository {
	return &Repository{ds: &dataSource{c: c}}
}

// List returns all projects and the backend's total count.
func (r *Repository) List(ctx context.Context) ([]Project, int, error) {
	var total int
	items, err := remote.FetchList(ctx, errList,
		func(ctx context.Context) ([]projectDTO, error) {
			res, err := r.ds.list(ctx)
			total = res.Total
			return res.Projects, err
		},
		projectDTO.check, toEntity)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns a single project by id.
func (r *Repository) Get(ctx context.Context, id string) (Project, error) {
	return remote.Fetch(ctx, errGet,
		func(ctx context.Context) (projectDTO, error) { return r.ds.get(ctx, id) },
		projectDTO.check, toEntity)
}

// Create persists a draft and returns the stored entity.
func (r *Repository) Create(ctx context.Context, draft Draft) (Project, error) {
	req := createProjectRequest{
		Name:            draft.Name,
		Description:     draft.Description,
		Color:           draft.Color,
		Icon:            draft.Icon,
		ParentProjectID: draft.ParentProjectID,
		Tags:            append(wire.StringList{}, draft.Tags...),
	}
	return remote.Fetch(ctx, errCreate,
		func(ctx context.Context) (projectDTO, error) { return r.ds.create(ctx, req) },
		projectDTO.check, toEntity)
}

// Update replaces the mutable fields of a project.
func (r *Repository) Update(ctx context.Context, id string, draft Draft) (Project, error) {
	req := createProjectRequest{
		Name:            draft.Name,
		Description:     draft.Description,
		Color:           draft.Color,
		Icon:            draft.Icon,
		ParentProjectID: draft.ParentProjectID,
		Tags:            append(wire.StringList{}, draft.Tags...),
	}
	return remote.Fetch(ctx, errUpdate,
		func(ctx context.Context) (projectDTO, error) { return r.ds.update(ctx, id, req) },
		projectDTO.check, toEntity)
}

// Delete removes a project by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return remote.Exec(ctx, errDelete,
		func(ctx context.Context) error { return r.ds.delete(ctx, id) })
}
