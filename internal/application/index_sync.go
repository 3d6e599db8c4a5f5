package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
)

// UserIndexer receives stored users. The Elasticsearch user index implements it.
type UserIndexer interface {
	IndexUsers(ctx context.Context, users []entity.User) error
}

// IndexSync copies the stored users into a search index page by page.
// Documents come from the store, so they keep the stored created_at and the
// index sorts the same way the store does.
type IndexSync struct {
	Store     repo.UserRepository
	Index     UserIndexer
	BatchSize int
	Logger    *logrus.Logger
}

func NewIndexSync(store repo.UserRepository, index UserIndexer, logger *logrus.Logger) *IndexSync {
	return &IndexSync{Store: store, Index: index, BatchSize: 500, Logger: logger}
}

// Sync indexes every stored user and returns how many were sent.
func (s *IndexSync) Sync(ctx context.Context) (int, error) {
	size := s.BatchSize
	if size <= 0 {
		size = 500
	}
	start := time.Now()
	total := 0
	for page := 1; ; page++ {
		users, err := s.Store.List(ctx, page, size)
		if err != nil {
			return total, err
		}
		if len(users) > 0 {
			if err := s.Index.IndexUsers(ctx, users); err != nil {
				return total, err
			}
			total += len(users)
		}
		if len(users) < size {
			break
		}
	}

	logger := s.Logger
	if logger == nil {
		logger = discardLogger
	}
	logger.WithFields(logrus.Fields{"users": total, "took": time.Since(start).String()}).Info("search index synced")
	return total, nil
}
