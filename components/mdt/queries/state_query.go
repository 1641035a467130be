package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// StateRequest asks for the current terminal state.
type StateRequest struct{}

type stateReader interface {
	Snapshot(ctx context.Context) (mdt.State, error)
}

// StateQuery returns a snapshot of the controller state.
type StateQuery struct {
	controller stateReader
}

// NewStateQuery builds the query.
func NewStateQuery(controller stateReader) *StateQuery {
	return &StateQuery{controller: controller}
}

var _ gocommand.Querier[StateRequest, mdt.State] = (*StateQuery)(nil)

// Query reads the snapshot on the controller loop.
func (q *StateQuery) Query(ctx context.Context, _ StateRequest) (mdt.State, error) {
	return q.controller.Snapshot(ctx)
}
