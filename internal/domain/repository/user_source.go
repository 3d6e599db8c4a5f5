package repository

import (
	"context"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
)

// UserSource supplies batches of freshly minted users from an external generator.
type UserSource interface {
	FetchUsers(ctx context.Context, page, results int) ([]entity.User, error)
}
