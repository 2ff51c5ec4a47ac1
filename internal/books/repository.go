package books

import (
	"context"

	"bookcatalog/internal/types"
)

// Repository is the access layer over the catalog API. Every method issues exactly one
// request; failures are logged and returned to the caller as they were received.
type Repository interface {
	List(ctx context.Context) ([]*types.Book, error)
	GetById(ctx context.Context, id int64) (*types.Book, error)

	// Create returns the record as stored by the server, including its new id
	Create(ctx context.Context, in *types.BookInput) (*types.Book, error)
	// Update sends the whole record, addressed by b.Id
	Update(ctx context.Context, b *types.Book) (*types.Book, error)
	Delete(ctx context.Context, id int64) error

	// Welcome returns the greeting served at the API root
	Welcome(ctx context.Context) (string, error)
}
