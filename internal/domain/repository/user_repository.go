package repository

import (
	"context"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// UpsertResult reports how a batch upsert was applied.
type UpsertResult struct {
	Inserted int
	Updated  int
}

// UserRepository defines the persistence operations of the directory.
// Paging arguments are not validated here.
type UserRepository interface {
	// List returns up to size users after skipping (page-1)*size, in a stable order.
	List(ctx context.Context, page, size int) ([]entity.User, error)
	// GetByID reports found=false, with a nil error, when no user has the id.
	GetByID(ctx context.Context, id string) (*entity.User, bool, error)
	// Search returns users whose first name, last name or email contains term, ignoring case.
	Search(ctx context.Context, term string) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
	// Upsert inserts or overwrites every user by id inside a single transaction.
	Upsert(ctx context.Context, users []entity.User) (UpsertResult, error)
}

// UserSearcher is the read side used for substring search. The Postgres
// repository satisfies it, as does the Elasticsearch user index.
type UserSearcher interface {
	Search(ctx context.Context, term string) ([]entity.User, error)
}
