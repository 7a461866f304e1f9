package plants

import (
	"context"

	"github.com/JaimeStill/floraguard/pkg/pagination"
)

// System defines the public contract for curated store operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Plant], error)

	// Find returns the plant whose id or alias equals key.
	Find(ctx context.Context, key string) (*Plant, error)
	Upsert(ctx context.Context, cmd UpsertCommand) (*Plant, error)
	Delete(ctx context.Context, key string) error
}
