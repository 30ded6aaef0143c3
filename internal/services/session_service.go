package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkrail/go-todo-web/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewSessionService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{
		ID: sessionID,
	}

	const selectSessionByIDQuery = `
SELECT user_id,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("session_id", session.ID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to select session by id")
		return nil, err
	}

	if session.Expired(time.Now()) {
		s.logger.Warn().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	s.logger.Debug().
		Str("session_id", session.ID).
		Str("user_id", session.UserID).
		Msg("resolved session")
	return session, nil
}
