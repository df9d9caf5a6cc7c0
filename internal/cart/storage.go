package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Storage mirrors cart state durably per session. Concurrent writers for the same
// session overwrite each other; the last write wins.
type Storage interface {
	// Load returns the stored state, or an empty cart when nothing is stored.
	Load(ctx context.Context, sessionID string) (State, error)

	// Save replaces the stored state.
	Save(ctx context.Context, sessionID string, state State) error
}

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// ErrInvalidSession is returned for session ids that cannot be used as storage keys.
var ErrInvalidSession = errors.New("invalid cart session id")

// ValidSession reports whether id can be used as a cart session id.
func ValidSession(id string) bool {
	return sessionPattern.MatchString(id)
}

// redisStorage keeps each cart as a JSON document with a sliding TTL.
type redisStorage struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStorage creates a Redis-backed cart mirror.
func NewRedisStorage(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Storage {
	return &redisStorage{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-redis").Logger(),
	}
}

func (r *redisStorage) key(sessionID string) string {
	return "cart:" + sessionID
}

func (r *redisStorage) Load(ctx context.Context, sessionID string) (State, error) {
	if !ValidSession(sessionID) {
		return State{}, ErrInvalidSession
	}

	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Empty(), nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return State{}, fmt.Errorf("failed to load cart: %w", err)
	}

	return decodeState(raw)
}

func (r *redisStorage) Save(ctx context.Context, sessionID string, state State) error {
	if !ValidSession(sessionID) {
		return ErrInvalidSession
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), raw, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("session_id", sessionID).
		Int("lines", len(state.Lines)).
		Msg("cart saved")

	return nil
}

// fileStorage keeps each cart as <dir>/<session>.json.
type fileStorage struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStorage creates a file-backed cart mirror rooted at dir.
func NewFileStorage(dir string, logger zerolog.Logger) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart directory %s: %w", dir, err)
	}
	return &fileStorage{
		dir:    dir,
		logger: logger.With().Str("component", "cart-file").Logger(),
	}, nil
}

func (f *fileStorage) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".json")
}

func (f *fileStorage) Load(ctx context.Context, sessionID string) (State, error) {
	if !ValidSession(sessionID) {
		return State{}, ErrInvalidSession
	}

	raw, err := os.ReadFile(f.path(sessionID))
	if errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		f.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to read cart file")
		return State{}, fmt.Errorf("failed to load cart: %w", err)
	}

	return decodeState(raw)
}

// Save writes through a temporary file so a crash never leaves a torn document.
func (f *fileStorage) Save(ctx context.Context, sessionID string, state State) error {
	if !ValidSession(sessionID) {
		return ErrInvalidSession
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, sessionID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path(sessionID)); err != nil {
		f.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to replace cart file")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func decodeState(raw []byte) (State, error) {
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode cart: %w", err)
	}
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	// The stored total is advisory; the lines are authoritative.
	state.Total = state.Recompute()
	return state, nil
}
