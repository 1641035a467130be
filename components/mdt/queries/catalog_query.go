package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// CatalogRequest asks for the registered pages and forms.
type CatalogRequest struct{}

// Catalog lists what the terminal can show.
type Catalog struct {
	Pages []mdt.PageDefinition `json:"pages"`
	Forms []mdt.FormTemplate   `json:"forms"`
}

type catalogReader interface {
	Pages() []mdt.PageDefinition
	Forms() []mdt.FormTemplate
}

// CatalogQuery returns the page and form registry.
type CatalogQuery struct {
	controller catalogReader
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(controller catalogReader) *CatalogQuery {
	return &CatalogQuery{controller: controller}
}

var _ gocommand.Querier[CatalogRequest, Catalog] = (*CatalogQuery)(nil)

// Query lists pages and forms. The registry is immutable after construction.
func (q *CatalogQuery) Query(context.Context, CatalogRequest) (Catalog, error) {
	return Catalog{Pages: q.controller.Pages(), Forms: q.controller.Forms()}, nil
}
