// Package translator implements the pseudocode translation vertical.
package translator

import (
	"context"

	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
	"github.com/starford/ansuz/internal/wire"
)

const basePath = "/api/v1/translator/translate"

const errTranslate = "failed to translate pseudocode"

type translateRequest struct {
	Pseudocode string `json:"pseudocode"`
	Language   string `json:"language"`
}

type translationDTO struct {
	Code     string          `json:"code"`
	Language string          `json:"language"`
	Warnings wire.StringList `json:"warnings"`
}

// Translation is the domain entity: generated code plus any
// translation warnings.
type Translation struct {
	Code     string
	Language string
	Warnings []string
}

func toEntity(d translationDTO) Translation {
	return Translation{
		Code:     d.Code,
		Language: d.Language,
		Warnings: append([]string{}, d.Warnings...),
	}
}

type dataSource struct {
	c *transport.Client
}

func (ds *dataSource) translate(ctx context.Context, req translateRequest) (translationDTO, error) {
	var out translationDTO
	err := ds.c.Post(ctx, basePath, req, &out)
	return out, err
}

// Repository exposes the translate operation.
type Repository struct {
	ds *dataSource
}

// NewRepository creates a translator repository over a transport client.
func NewRepository(c *transport.Client) *Repository {
	return &Repository{ds: &dataSource{c: c}}
}

// Translate converts pseudocode into the target language. Empty input
// is rejected locally.
func (r *Repository) Translate(ctx context.Context, pseudocode, language string) (Translation, error) {
	if pseudocode == "" {
		return Translation{}, failure.Validationf("pseudocode must not be empty")
	}
	if language == "" {
		language = "python"
	}
	return remote.Fetch(ctx, errTranslate,
		func(ctx context.Context) (translationDTO, error) {
			return r.ds.translate(ctx, translateRequest{Pseudocode: pseudocode, Language: language})
		},
		nil, toEntity)
}
