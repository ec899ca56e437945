package notes

import (
	"context"
	"net/url"
	"strconv"

	"github.com/starford/ansuz/internal/transport"
)

const basePath = "/api/v1/notes"

// dataSource issues the raw HTTP calls for the notes vertical. It holds
// no domain logic; every failure path terminates in a typed transport
// error for the repository to normalize.
type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) list(ctx context.Context, limit, offset int) (noteListDTO, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out noteListDTO
	err := ds.c.Get(ctx, basePath, q, &out)
	return out, err
}

func (ds *dataSource) get(ctx context.Context, id string) (noteDTO, error) {
	var out noteDTO
	err := ds.c.Get(ctx, basePath+"/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (ds *dataSource) create(ctx context.Context, req createNoteRequest) (noteDTO, error) {
	var out noteDTO
	err := ds.c.Post(ctx, basePath, req, &out)
	return out, err
}

func (ds *dataSource) update(ctx context.Context, id string, req updateNoteRequest) (noteDTO, error) {
	var out noteDTO
	err := ds.c.Put(ctx, basePath+"/"+url.PathEscape(id), req, &out)
	return out, err
}

func (ds *dataSource) delete(ctx context.Context, id string) error {
	return ds.c.Delete(ctx, basePath+"/"+url.PathEscape(id), nil, nil)
}
