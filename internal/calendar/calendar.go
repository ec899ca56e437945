// Package calendar implements the calendar vertical. Unlike the other
// list endpoints, GET /api/v1/calendar returns a bare JSON array rather
// than a wrapped object; the data source owns that knowledge.
package calendar

import (
	"context"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
	"github.com/starford/ansuz/internal/wire"
)

const basePath = "/api/v1/calendar"

const (
	errList   = "failed to list events"
	errGet    = "failed to load event"
	errCreate = "failed to create event"
	errUpdate = "failed to update event"
	errDelete = "failed to delete event"
)

// eventDTO mirrors the backend's calendar event JSON. EventDate is a
// date-only field; StartTime/EndTime are full timestamps.
type eventDTO struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	EventType    string          `json:"event_type"`
	Status       string          `json:"status"`
	EventDate    wire.Time       `json:"event_date"`
	StartTime    wire.Time       `json:"start_time"`
	EndTime      wire.Time       `json:"end_time"`
	AllDay       bool            `json:"all_day"`
	Location     string          `json:"location,omitempty"`
	Participants wire.StringList `json:"participants"`
	ProjectID    string          `json:"project_id,omitempty"`
	Tags         wire.StringList `json:"tags"`
	CreatedAt    wire.Time       `json:"created_at"`
	UpdatedAt    wire.Time       `json:"updated_at"`
	CompletedAt  wire.Time       `json:"completed_at"`
}

func (d eventDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}

// Event is the domain entity.
type Event struct {
	ID           string
	Title        string
	Description  string
	EventType    string
	Status       string
	EventDate    time.Time
	StartTime    time.Time
	EndTime      time.Time
	AllDay       bool
	Location     string
	Participants []string
	ProjectID    string
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  time.Time
}

func toEntity(d eventDTO) Event {
	return Event{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		EventType:    d.EventType,
		Status:       d.Status,
		EventDate:    d.EventDate.Time,
		StartTime:    d.StartTime.Time,
		EndTime:      d.EndTime.Time,
		AllDay:       d.AllDay,
		Location:     d.Location,
		Participants: append([]string{}, d.Participants...),
		ProjectID:    d.ProjectID,
		Tags:         append([]string{}, d.Tags...),
		CreatedAt:    d.CreatedAt.Time,
		UpdatedAt:    d.UpdatedAt.Time,
		CompletedAt:  d.CompletedAt.Time,
	}
}

func fromEntity(e Event) eventDTO {
	return eventDTO{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		EventType:    e.EventType,
		Status:       e.Status,
		EventDate:    wire.Time{Time: e.EventDate},
		StartTime:    wire.Time{Time: e.StartTime},
		EndTime:      wire.Time{Time: e.EndTime},
		AllDay:       e.AllDay,
		Location:     e.Location,
		Participants: append(wire.StringList{}, e.Participants...),
		ProjectID:    e.ProjectID,
		Tags:         append(wire.StringList{}, e.Tags...),
		CreatedAt:    wire.Time{Time: e.CreatedAt},
		UpdatedAt:    wire.Time{Time: e.UpdatedAt},
		CompletedAt:  wire.Time{Time: e.CompletedAt},
	}
}

// Draft is the caller-supplied portion of a new event.
type Draft struct {
	Title        string
	Description  string
	EventType    string
	EventDate    time.Time
	StartTime    time.Time
	EndTime      time.Time
	AllDay       bool
	Location     string
	Participants []string
	ProjectID    string
	Tags         []string
}

type createEventRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	EventType    string          `json:"event_type,omitempty"`
	EventDate    string          `json:"event_date"`
	StartTime    wire.Time       `json:"start_time,omitempty"`
	EndTime      wire.Time       `json:"end_time,omitempty"`
	AllDay       bool            `json:"all_day"`
	Location     string          `json:"location,omitempty"`
	Participants wire.StringList `json:"participants"`
	ProjectID    string          `json:"project_id,omitempty"`
	Tags         wire.StringList `json:"tags"`
}

func (d Draft) toRequest() createEventRequest {
	return createEventRequest{
		Title:        d.Title,
		Description:  d.Description,
		EventType:    d.EventType,
		EventDate:    wire.Time{Time: d.EventDate}.DateOnly(),
		StartTime:    wire.Time{Time: d.StartTime},
		EndTime:      wire.Time{Time: d.EndTime},
		AllDay:       d.AllDay,
		Location:     d.Location,
		Participants: append(wire.StringList{}, d.Participants...),
		ProjectID:    d.ProjectID,
		Tags:         append(wire.StringList{}, d.Tags...),
	}
}

// dataSource issues the raw HTTP calls for the calendar vertical.
type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) list(ctx context.Context, from, to time.Time) ([]eventDTO, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("start_date", wire.Time{Time: from}.DateOnly())
	}
	if !to.IsZero() {
		q.Set("end_date", wire.Time{Time: to}.DateOnly())
	}
	var out []eventDTO
	err := ds.c.Get(ctx, basePath, q, &out)
	return out, err
}

func (ds *dataSource) get(ctx context.Context, id string) (eventDTO, error) {
	var out eventDTO
	err := ds.c.Get(ctx, basePath+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (ds *dataSource) create(ctx context.Context, req createEventRequest) (eventDTO, error) {
	var out eventDTO
	err := ds.c.Post(ctx, basePath, req, &out)
	return out, err
}

func (ds *dataSource) update(ctx context.Context, id string, req createEventRequest) (eventDTO, error) {
	var out eventDTO
	err := ds.c.Put(ctx, basePath+"/"+url.PathEscape(id), req, &out)
	return out, err
}

func (ds *dataSource) delete(ctx context.Context, id string) error {
	return ds.c.Delete(ctx, basePath+"/"+url.PathEscape(id), nil, nil)
}

// Repository exposes entity-typed calendar operations.
type Repository struct {
	ds *dataSource
}

// NewRepository creates a calendar repository over a transport client.
func NewRepository(c *transport.Client) *Repository {
	return &Repository{ds: &dataSource{c: c}}
}

// List returns events, optionally constrained to a date range. Zero
// bounds mean unbounded.
func (r *Repository) List(ctx context.Context, from, to time.Time) ([]Event, error) {
	return remote.FetchList(ctx, errList,
		func(ctx context.Context) ([]eventDTO, error) { return r.ds.list(ctx, from, to) },
		eventDTO.check, toEntity)
}

// Get returns a single event by id.
func (r *Repository) Get(ctx context.Context, id string) (Event, error) {
	return remote.Fetch(ctx, errGet,
		func(ctx context.Context) (eventDTO, error) { return r.ds.get(ctx, id) },
		eventDTO.check, toEntity)
}

// Create persists a draft and returns the stored entity.
func (r *Repository) Create(ctx context.Context, draft Draft) (Event, error) {
	return remote.Fetch(ctx, errCreate,
		func(ctx context.Context) (eventDTO, error) { return r.ds.create(ctx, draft.toRequest()) },
		eventDTO.check, toEntity)
}

// Update replaces the mutable fields of an event.
func (r *Repository) Update(ctx context.Context, id string, draft Draft) (Event, error) {
	return remote.Fetch(ctx, errUpdate,
		func(ctx context.Context) (eventDTO, error) { return r.ds.update(ctx, id, draft.toRequest()) },
		eventDTO.check, toEntity)
}

// Delete removes an event by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return remote.Exec(ctx, errDelete,
		func(ctx context.Context) error { return r.ds.delete(ctx, id) })
}
