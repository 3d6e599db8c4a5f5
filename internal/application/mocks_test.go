package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) List(ctx context.Context, page, size int) ([]entity.User, error) {
	args := m.Called(ctx, page, size)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*entity.User, bool, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Bool(1), args.Error(2)
}

func (m *mockStore) Search(ctx context.Context, term string) ([]entity.User, error) {
	args := m.Called(ctx, term)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Upsert(ctx context.Context, users []entity.User) (repo.UpsertResult, error) {
	args := m.Called(ctx, users)
	return args.Get(0).(repo.UpsertResult), args.Error(1)
}

type mockSource struct{ mock.Mock }

func (m *mockSource) FetchUsers(ctx context.Context, page, results int) ([]entity.User, error) {
	args := m.Called(ctx, page, results)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

func makeUsers(prefix string, n int) []entity.User {
	out := make([]entity.User, n)
	for i := range out {
		out[i] = entity.User{
			ID:          fmt.Sprintf("%s-%02d", prefix, i),
			FirstName:   "First" + prefix,
			LastName:    "Last",
			Email:       fmt.Sprintf("%s%d@example.com", prefix, i),
			DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

// memStore is an in-memory store for concurrency tests.
type memStore struct {
	mu      sync.Mutex
	users   []entity.User
	upserts atomic.Int32
	counts  atomic.Int32
	// countHook, when set, overrides Count
	countHook func(call int32) int64
}

func (s *memStore) List(_ context.Context, page, size int) ([]entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := (page - 1) * size
	if start >= len(s.users) {
		return []entity.User{}, nil
	}
	end := min(start+size, len(s.users))
	return append([]entity.User(nil), s.users[start:end]...), nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return &u, true, nil
		}
	}
	return nil, false, nil
}

func (s *memStore) Search(context.Context, string) ([]entity.User, error) {
	return []entity.User{}, nil
}

func (s *memStore) Count(context.Context) (int64, error) {
	call := s.counts.Add(1)
	if s.countHook != nil {
		return s.countHook(call), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memStore) Upsert(_ context.Context, users []entity.User) (repo.UpsertResult, error) {
	s.upserts.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, users...)
	return repo.UpsertResult{Inserted: len(users)}, nil
}

// slowSource counts fetches and delays each one.
type slowSource struct {
	calls atomic.Int32
	delay time.Duration
}

func (s *slowSource) FetchUsers(ctx context.Context, page, results int) ([]entity.User, error) {
	s.calls.Add(1)
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return makeUsers(fmt.Sprintf("p%d", page), results), nil
}

type fakeLocker struct {
	err      error
	obtained atomic.Int32
	released atomic.Int32
	ttl      atomic.Int64
}

func (l *fakeLocker) Obtain(_ context.Context, _ string, ttl time.Duration) (func(context.Context) error, error) {
	l.ttl.Store(int64(ttl))
	if l.err != nil {
		return nil, l.err
	}
	l.obtained.Add(1)
	return func(context.Context) error {
		l.released.Add(1)
		return nil
	}, nil
}
