package filesearch

import (
	"context"

	"github.com/starford/ansuz/internal/transport"
)

const basePath = "/api/v1/file_search"

// dataSource issues the raw HTTP calls for the file-search subsystem.
type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) search(ctx context.Context, req searchRequest) (searchResponseDTO, error) {
	var out searchResponseDTO
	err := ds.c.Post(ctx, basePath+"/search", req, &out)
	return out, err
}

func (ds *dataSource) addToIndex(ctx context.Context, req indexMutationRequest) error {
	return ds.c.Post(ctx, basePath+"/index", req, nil)
}

func (ds *dataSource) removeFromIndex(ctx context.Context, path string) error {
	return ds.c.Delete(ctx, basePath+"/index", indexMutationRequest{Path: path}, nil)
}

func (ds *dataSource) listDirectories(ctx context.Context) (directoriesDTO, error) {
	var out directoriesDTO
	err := ds.c.Get(ctx, basePath+"/directories", nil, &out)
	return out, err
}

func (ds *dataSource) addDirectory(ctx context.Context, req directoryDTO) error {
	return ds.c.Post(ctx, basePath+"/directories", req, nil)
}

func (ds *dataSource) removeDirectory(ctx context.Context, path string) error {
	return ds.c.Delete(ctx, basePath+"/directories", removeDirectoryRequest{Path: path}, nil)
}

func (ds *dataSource) stats(ctx context.Context) (statsDTO, error) {
	var out statsDTO
	err := ds.c.Get(ctx, basePath+"/stats", nil, &out)
	return out, err
}

func (ds *dataSource) extendedStats(ctx context.Context) (extendedStatsDTO, error) {
	var out extendedStatsDTO
	err := ds.c.Get(ctx, basePath+"/stats/extended", nil, &out)
	return out, err
}

func (ds *dataSource) reindex(ctx context.Context) (reindexResponseDTO, error) {
	var out reindexResponseDTO
	err := ds.c.Post(ctx, basePath+"/reindex", nil, &out)
	return out, err
}
