// internal/game/service_test.go
package game

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/connortbot/yappers.live/internal/models"
)

// memStore is an in-memory Store standing in for Redis. Documents round-trip
// through JSON so tests see the same copy semantics as the real store.
type memStore struct {
	mu    sync.Mutex
	games map[string][]byte
	codes map[string]string
	saves int
}

func newMemStore() *memStore {
	return &memStore{
		games: make(map[string][]byte),
		codes: make(map[string]string),
	}
}

func (m *memStore) Get(ctx context.Context, gameID string) (*models.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	var g models.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *memStore) GetByCode(ctx context.Context, code string) (*models.Game, error) {
	m.mu.Lock()
	id, ok := m.codes[strings.ToUpper(code)]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *memStore) CodeExists(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.codes[strings.ToUpper(code)]
	return ok, nil
}

func (m *memStore) Save(ctx context.Context, g *models.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = data
	m.codes[strings.ToUpper(g.Code)] = g.ID
	m.saves++
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memStore) Delete(ctx context.Context, g *models.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, g.ID)
	delete(m.codes, strings.ToUpper(g.Code))
	return nil
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := newMemStore()
	return NewService(store, logger), store
}

// makeGame creates a room and joins extra players, returning the game and
// ordered player ids (host first).
func makeGame(t *testing.T, svc *Service, mode models.GameMode, usernames ...string) (*models.Game, []string) {
	t.Helper()
	ctx := context.Background()

	g, hostID, err := svc.CreateGame(ctx, usernames[0], mode)
	require.NoError(t, err)

	ids := []string{hostID}
	for _, name := range usernames[1:] {
		joined, pid, err := svc.JoinGame(ctx, g.Code, name)
		require.NoError(t, err)
		ids = append(ids, pid)
		g = joined
	}
	return g, ids
}
