package filesearch

import (
	"time"

	"github.com/starford/ansuz/internal/wire"
)

// Result is one search hit. Results are ephemeral: owned by the query
// that produced them and replaced wholesale on the next search.
type Result struct {
	Path     string
	Score    float64
	Metadata map[string]any
}

// DirectoryConfig is a watched directory. Path is the unique key; the
// value is never mutated in place, changes are remove+add.
type DirectoryConfig struct {
	Path                  string
	IncludeSubdirectories bool
	// FileExtensions restricts indexing to the given extensions.
	// Nil means all extensions.
	FileExtensions []string
}

// Statistics is a point-in-time snapshot, always replaced wholesale on
// refresh. Extended is present only when the best-effort extended
// probe succeeded.
type Statistics struct {
	IndexedFiles       int
	IndexedDirectories int
	TotalSizeBytes     int64
	LastReindexAt      time.Time
	Extended           *ExtendedStats
}

// ExtendedStats carries the optional extended-status probe data.
type ExtendedStats struct {
	QueueDepth   int
	IndexHealthy bool
	EngineStatus string
}

// SearchQuery are the caller-supplied search parameters.
type SearchQuery struct {
	Query       string
	FileTypes   []string
	Directories []string
	MaxResults  int
}

func resultToEntity(d resultDTO) Result {
	return Result{Path: d.Path, Score: d.Score, Metadata: d.Metadata}
}

func directoryToEntity(d directoryDTO) DirectoryConfig {
	var exts []string
	if d.FileExtensions != nil {
		exts = append([]string{}, d.FileExtensions...)
	}
	return DirectoryConfig{
		Path:                  d.Path,
		IncludeSubdirectories: d.IncludeSubdirectories,
		FileExtensions:        exts,
	}
}

func directoryFromEntity(cfg DirectoryConfig) directoryDTO {
	var exts wire.StringList
	if cfg.FileExtensions != nil {
		exts = append(wire.StringList{}, cfg.FileExtensions...)
	}
	return directoryDTO{
		Path:                  cfg.Path,
		IncludeSubdirectories: cfg.IncludeSubdirectories,
		FileExtensions:        exts,
	}
}

func statsToEntity(d statsDTO) Statistics {
	return Statistics{
		IndexedFiles:       d.IndexedFiles,
		IndexedDirectories: d.IndexedDirectories,
		TotalSizeBytes:     d.TotalSizeBytes,
		LastReindexAt:      d.LastReindexAt.Time,
	}
}
