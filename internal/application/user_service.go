package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

// Population fetches PopulatePages pages of PopulatePageSize users.
const (
	PopulatePages    = 5
	PopulatePageSize = 10

	populateLockKey = "lock:users:populate"

	// lockMargin covers the count, the upsert commit and the release that
	// follow a population bounded by PopulateTimeout.
	lockMargin = 5 * time.Second
)

// Locker guards population across processes. helpers.RedisLocker implements it.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// Publisher delivers events. helpers.RabbitPublisher implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Store    repo.UserRepository
	Source   repo.UserSource
	Searcher repo.UserSearcher // defaults to Store
	Locker   Locker            // optional
	Events   Publisher         // optional
	Logger   *logrus.Logger

	LockTTL         time.Duration
	PopulateTimeout time.Duration
	WaitInterval    time.Duration

	populate singleflight.Group
}

func NewService(store repo.UserRepository, source repo.UserSource, logger *logrus.Logger) *Service {
	return &Service{
		Store:           store,
		Source:          source,
		Logger:          logger,
		LockTTL:         90 * time.Second,
		PopulateTimeout: time.Minute,
		WaitInterval:    250 * time.Millisecond,
	}
}

// GetUsers returns one page of users, populating the store first when it is empty.
// page and size are expected to be clamped by the caller.
func (s *Service) GetUsers(ctx context.Context, page, size int) (*Paginated[UserDTO], error) {
	total, err := s.Store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		if err := s.PopulateIfEmpty(ctx); err != nil {
			return nil, err
		}
		if total, err = s.Store.Count(ctx); err != nil {
			return nil, err
		}
	}

	users, err := s.Store.List(ctx, page, size)
	if err != nil {
		return nil, err
	}
	p := NewPaginated(toUserDTOs(users), total, page, size)
	return &p, nil
}

// GetUserByID reports found=false when no user has the id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*UserDTO, bool, error) {
	u, found, err := s.Store.GetByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}
	dto := ToUserDTO(*u)
	return &dto, true, nil
}

// SearchUsers matches term against names and email. A blank term yields an
// empty result without a lookup. Any other term is searched as given, so the
// value a caller validated is the value that is matched.
func (s *Service) SearchUsers(ctx context.Context, term string) ([]UserDTO, error) {
	if strings.TrimSpace(term) == "" {
		return []UserDTO{}, nil
	}
	searcher := s.Searcher
	if searcher == nil {
		searcher = s.Store
	}
	users, err := searcher.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

// PopulateIfEmpty fills an empty store. Concurrent callers in this process
// share one attempt; other processes are held off by the Locker. Nothing
// remembers a failed attempt, so the next caller that sees zero retries.
func (s *Service) PopulateIfEmpty(ctx context.Context) error {
	n, err := s.Store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	ch := s.populate.DoChan("populate", func() (any, error) {
		// outlives the first caller so the others still get a result
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.populateTimeout())
		defer cancel()
		return nil, s.populateLocked(pctx)
	})

	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return appErr.Wrap(ctx.Err(), appErr.CodeDeadline, "waiting for population canceled")
	}
}

func (s *Service) populateLocked(ctx context.Context) error {
	if s.Locker != nil {
		release, err := s.Locker.Obtain(ctx, populateLockKey, s.lockTTL())
		switch {
		case errors.Is(err, helpers.ErrLockNotObtained):
			return s.waitForPopulation(ctx)
		case err != nil:
			s.log().WithError(err).Warn("populate lock unavailable, continuing without it")
		default:
			defer func() {
				if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
					s.log().WithError(rerr).Warn("release populate lock failed")
				}
			}()
		}
	}

	// another instance may have finished between our count and the lock
	n, err := s.Store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Populate(ctx)
	return err
}

func (s *Service) populateTimeout() time.Duration {
	if s.PopulateTimeout <= 0 {
		return time.Minute
	}
	return s.PopulateTimeout
}

// lockTTL never lets the lock expire while its holder may still be writing;
// an expired lock would let another instance insert a second batch.
func (s *Service) lockTTL() time.Duration {
	return max(s.LockTTL, s.populateTimeout()+lockMargin)
}

// waitForPopulation polls until another instance has filled the store.
func (s *Service) waitForPopulation(ctx context.Context) error {
	s.log().Debug("population running elsewhere, waiting")
	interval := s.WaitInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.Store.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return appErr.Wrap(ctx.Err(), appErr.CodeUnavailable, "users are still being populated")
		case <-ticker.C:
		}
	}
}

// Populate fetches a fresh batch from the source and upserts it in one call.
// A failed page discards the whole batch.
func (s *Service) Populate(ctx context.Context) (repo.UpsertResult, error) {
	populateAttempts.Add(1)
	start := time.Now()

	users, err := s.fetchBatch(ctx)
	if err != nil {
		populateFailures.Add(1)
		s.log().WithError(err).Error("fetch users failed, batch discarded")
		return repo.UpsertResult{}, err
	}

	res, err := s.Store.Upsert(ctx, users)
	if err != nil {
		populateFailures.Add(1)
		s.log().WithError(err).WithField("batch", len(users)).Error("upsert users failed")
		return repo.UpsertResult{}, err
	}
	populatedUsers.Add(int64(res.Inserted))

	s.log().WithFields(logrus.Fields{
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"took":     time.Since(start).String(),
	}).Info("users populated")

	s.publishCached(ctx, users, res)
	return res, nil
}

func (s *Service) fetchBatch(ctx context.Context) ([]entity.User, error) {
	pages := make([][]entity.User, PopulatePages)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		g.Go(func() error {
			users, err := s.Source.FetchUsers(gctx, i+1, PopulatePageSize)
			if err != nil {
				return err
			}
			pages[i] = users
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := make([]entity.User, 0, PopulatePages*PopulatePageSize)
	for _, p := range pages {
		batch = append(batch, p...)
	}
	return batch, nil
}

func (s *Service) publishCached(ctx context.Context, users []entity.User, res repo.UpsertResult) {
	if s.Events == nil {
		return
	}
	evt := UsersCached{
		Users:    toUserDTOs(users),
		Inserted: res.Inserted,
		Updated:  res.Updated,
		CachedAt: time.Now().UTC(),
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.Events.PublishJSON(c, evt); err != nil {
		s.log().WithError(err).Warn("publish users cached event failed")
	}
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (s *Service) log() *logrus.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
