package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rift-rewind/internal/api"
	"rift-rewind/internal/config"
	"rift-rewind/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrSlotNotFound = errors.New("session slot not found")

type SlotKind string

const (
	SlotStats    SlotKind = "stats"
	SlotTimeline SlotKind = "timeline"
	SlotPlayer   SlotKind = "player"
)

// Snapshot is everything a successful search hands to the views. It is
// written as a whole and never patched.
type Snapshot struct {
	Stats    *api.StatsPayload
	Timeline *api.TimelinePayload
	Player   domain.PlayerIdentity
}

type SessionRepository struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func NewSessionRepository(sqlDB *sql.DB, cfg *config.Config, logger zerolog.Logger) *SessionRepository {
	return &SessionRepository{
		db:     sqlDB,
		ttl:    cfg.SessionTTL,
		now:    time.Now,
		logger: logger.With().Str("component", "session_repository").Logger(),
	}
}

func NewSessionID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id, nil
}

// Save replaces every slot of the session in one transaction and pushes
// its expiry out by the configured TTL.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if snap.Stats == nil || snap.Timeline == nil {
		return fmt.Errorf("incomplete snapshot for session %s", sessionID)
	}

	slots := make(map[SlotKind][]byte, 3)
	for kind, v := range map[SlotKind]any{
		SlotStats:    snap.Stats,
		SlotTimeline: snap.Timeline,
		SlotPlayer:   snap.Player,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s slot: %w", kind, err)
		}
		slots[kind] = b
	}

	now := r.now().UTC()
	expiresAt := now.Add(r.ttl)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, game_name, tag_line, region, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			region = excluded.region,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`,
		sessionID, snap.Player.GameName, snap.Player.TagLine, snap.Player.Region,
		now.UnixMilli(), now.UnixMilli(), expiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", sessionID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_slots WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear slots for session %s: %w", sessionID, err)
	}

	for _, kind := range []SlotKind{SlotStats, SlotTimeline, SlotPlayer} {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO session_slots (session_id, kind, payload, updated_at) VALUES (?, ?, ?, ?)`,
			sessionID, string(kind), string(slots[kind]), now.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to write %s slot for session %s: %w", kind, sessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session %s: %w", sessionID, err)
	}

	r.logger.Debug().
		Str("session_id", sessionID).
		Time("expires_at", expiresAt).
		Msg("session snapshot saved")
	return nil
}

func (r *SessionRepository) GetStats(ctx context.Context, sessionID string) (*api.StatsPayload, error) {
	return getSlot[api.StatsPayload](ctx, r, sessionID, SlotStats)
}

func (r *SessionRepository) GetTimeline(ctx context.Context, sessionID string) (*api.TimelinePayload, error) {
	return getSlot[api.TimelinePayload](ctx, r, sessionID, SlotTimeline)
}

func (r *SessionRepository) GetPlayer(ctx context.Context, sessionID string) (*domain.PlayerIdentity, error) {
	return getSlot[domain.PlayerIdentity](ctx, r, sessionID, SlotPlayer)
}

func getSlot[T any](ctx context.Context, r *SessionRepository, sessionID string, kind SlotKind) (*T, error) {
	if sessionID == "" {
		return nil, ErrSlotNotFound
	}

	var payload string
	err := r.db.QueryRowContext(ctx, `
		SELECT s.payload
		FROM session_slots s
		JOIN sessions ss ON ss.id = s.session_id
		WHERE s.session_id = ? AND s.kind = ? AND ss.expires_at > ?`,
		sessionID, string(kind), r.now().UTC().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Str("slot", string(kind)).Msg("failed to read slot")
		return nil, fmt.Errorf("failed to read %s slot: %w", kind, err)
	}

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s slot: %w", kind, err)
	}
	return &out, nil
}

// PurgeExpired deletes sessions that expired at or before now; their
// slots go with them.
func (r *SessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	if n > 0 {
		r.logger.Info().Int64("purged", n).Msg("expired sessions purged")
	}
	return n, nil
}
