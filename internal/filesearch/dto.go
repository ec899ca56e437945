package filesearch

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/wire"
)

// searchRequest is the body of POST /api/v1/file_search/search.
type searchRequest struct {
	Query       string          `json:"query"`
	FileTypes   wire.StringList `json:"file_types,omitempty"`
	Directories wire.StringList `json:"directories,omitempty"`
	MaxResults  int             `json:"max_results,omitempty"`
}

// resultDTO is one search hit on the wire.
type resultDTO struct {
	Path     string         `json:"path"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (d resultDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Path, validation.Required),
	)
}

// searchResponseDTO wraps hits in a named array field.
type searchResponseDTO struct {
	Results []resultDTO `json:"results"`
}

// indexMutationRequest is the body for adding or removing an index entry.
type indexMutationRequest struct {
	Path                  string `json:"path"`
	IncludeSubdirectories bool   `json:"include_subdirectories,omitempty"`
}

// directoryDTO mirrors one watched-directory config.
type directoryDTO struct {
	Path                  string          `json:"path"`
	IncludeSubdirectories bool            `json:"include_subdirectories"`
	FileExtensions        wire.StringList `json:"file_extensions"`
}

func (d directoryDTO) check() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Path, validation.Required),
	)
}

// directoriesDTO wraps the watched-directory list.
type directoriesDTO struct {
	Directories []directoryDTO `json:"directories"`
}

// removeDirectoryRequest addresses a watched directory by its unique path.
type removeDirectoryRequest struct {
	Path string `json:"path"`
}

// statsDTO is the statistics snapshot on the wire.
type statsDTO struct {
	IndexedFiles       int       `json:"indexed_files"`
	IndexedDirectories int       `json:"indexed_directories"`
	TotalSizeBytes     int64     `json:"total_size_bytes"`
	LastReindexAt      wire.Time `json:"last_reindex_at"`
}

// extendedStatsDTO is the optional extended-status probe response.
type extendedStatsDTO struct {
	QueueDepth   int    `json:"queue_depth"`
	IndexHealthy bool   `json:"index_healthy"`
	EngineStatus string `json:"engine_status"`
}

// reindexResponseDTO is the async job handle returned by reindex.
type reindexResponseDTO struct {
	JobID string `json:"job_id"`
}
