package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/pkg/db"
	"github.com/Skotchmaster/mockshop/pkg/lock"
	"github.com/Skotchmaster/mockshop/pkg/tokens"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	topics []string
	err    error
}

func (r *recorder) PublishEvent(_ context.Context, topic, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev, ok := event.(Event); ok {
		r.events = append(r.events, ev)
		r.topics = append(r.topics, topic)
	}
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	repo   *repo.GormRepo
	tokens *tokens.Service
	events *recorder
	auth   *AuthService
	cart   *CartService
	users  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	r := repo.New(conn)
	require.NoError(t, r.Migrate(context.Background()))

	ts, err := tokens.NewService([]byte("test-secret"))
	require.NoError(t, err)

	events := &recorder{}
	locker := lock.NewKeyedMutex()
	return &fixture{
		repo:   r,
		tokens: ts,
		events: events,
		auth:   &AuthService{Users: r, Tokens: ts, Hasher: Bcrypt{}, Events: events},
		cart:   &CartService{Store: r, Locker: locker, Events: events},
		users:  &UserService{Users: r, Carts: r, Locker: locker, Events: events},
	}
}

// failingLocker refuses every lock, standing in for an unreachable Redis.
type failingLocker struct{}

func (failingLocker) Lock(context.Context, string) (lock.Unlock, error) {
	return nil, errors.New("lock backend down")
}
