package service

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// TeamStore keeps scored teams per event. Ranking reads the whole event at
// once, so List must return every team saved for it.
type TeamStore interface {
	Save(ctx context.Context, eventID string, team dto.TeamScore) error
	List(ctx context.Context, eventID string) ([]dto.TeamScore, error)
	Delete(ctx context.Context, eventID, teamID string) error
}

// MemoryTeamStore is the default store when no Redis URL is configured.
type MemoryTeamStore struct {
	mu     sync.RWMutex
	events map[string]map[string]dto.TeamScore
}

func NewMemoryTeamStore() *MemoryTeamStore {
	return &MemoryTeamStore{events: make(map[string]map[string]dto.TeamScore)}
}

func (m *MemoryTeamStore) Save(_ context.Context, eventID string, team dto.TeamScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	teams, ok := m.events[eventID]
	if !ok {
		teams = make(map[string]dto.TeamScore)
		m.events[eventID] = teams
	}
	teams[team.TeamID] = team
	return nil
}

func (m *MemoryTeamStore) List(_ context.Context, eventID string) ([]dto.TeamScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]dto.TeamScore, 0, len(m.events[eventID]))
	for _, t := range m.events[eventID] {
		out = append(out, t)
	}
	sortTeams(out)
	return out, nil
}

func (m *MemoryTeamStore) Delete(_ context.Context, eventID, teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[eventID][teamID]; !ok {
		return dto.ErrTeamNotFound
	}
	delete(m.events[eventID], teamID)
	return nil
}

// RedisTeamStore keeps one hash per event, team ID to JSON team score.
// The hash expires ttl after the last write.
type RedisTeamStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisTeamStore(client *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisTeamStore {
	return &RedisTeamStore{client: client, ttl: ttl, log: log}
}

// NewRedisClient parses the URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

func teamsKey(eventID string) string {
	return "scorecard:event:" + eventID + ":teams"
}

func (r *RedisTeamStore) Save(ctx context.Context, eventID string, team dto.TeamScore) error {
	data, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("failed to marshal team: %w", err)
	}

	key := teamsKey(eventID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, team.TeamID, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save team %s: %w", team.TeamID, err)
	}
	return nil
}

func (r *RedisTeamStore) List(ctx context.Context, eventID string) ([]dto.TeamScore, error) {
	raw, err := r.client.HGetAll(ctx, teamsKey(eventID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	out := make([]dto.TeamScore, 0, len(raw))
	for id, data := range raw {
		var team dto.TeamScore
		if err := json.Unmarshal([]byte(data), &team); err != nil {
			r.log.WithFields(logrus.Fields{
				"event_id": eventID,
				"team_id":  id,
			}).WithError(err).Warn("Skipping unreadable team record")
			continue
		}
		out = append(out, team)
	}
	sortTeams(out)
	return out, nil
}

func (r *RedisTeamStore) Delete(ctx context.Context, eventID, teamID string) error {
	n, err := r.client.HDel(ctx, teamsKey(eventID), teamID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	if n == 0 {
		return dto.ErrTeamNotFound
	}
	return nil
}

func sortTeams(teams []dto.TeamScore) {
	slices.SortFunc(teams, func(a, b dto.TeamScore) int {
		return cmp.Compare(a.TeamID, b.TeamID)
	})
}
