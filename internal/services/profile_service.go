package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkrail/go-todo-web/internal/models"
)

type profileServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProfileService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ProfileService {
	return &profileServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *profileServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{
		ID: userID,
	}

	const selectUserByIDQuery = `
SELECT username,
       email,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}

	return user, nil
}

func (s *profileServiceImpl) GetOrCreateProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID: userID,
	}

	const selectProfileQuery = `
SELECT id,
       image,
       created_at,
       updated_at
FROM profiles
WHERE user_id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectProfileQuery,
		profile.UserID,
	).Scan(
		&profile.ID,
		&profile.Image,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().
			Err(err).
			Str("user_id", profile.UserID).
			Msg("failed to select profile")
		return nil, err
	}

	// Accounts created before profiles existed get one lazily.
	profileUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate profile uuid")
		return nil, err
	}

	now := time.Now()
	profile.ID = profileUUID.String()
	profile.Image = models.DefaultProfileImage
	profile.CreatedAt = now
	profile.UpdatedAt = now

	const insertProfileQuery = `
INSERT INTO profiles (id,
                      user_id,
                      image,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO NOTHING
`
	_, err = s.pgPool.Exec(
		ctx,
		insertProfileQuery,
		profile.ID,
		profile.UserID,
		profile.Image,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", profile.UserID).
			Msg("failed to insert profile")
		return nil, err
	}

	s.logger.Info().
		Str("profile_id", profile.ID).
		Str("user_id", profile.UserID).
		Msg("created profile lazily")
	return profile, nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()

	const updateUserQuery = `
UPDATE users
SET username = $1,
    email = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := tx.Exec(
		ctx,
		updateUserQuery,
		params.Username,
		params.Email,
		now,
		params.UserID,
	)
	if err != nil {
		if taken := mapUniqueViolation(err); taken != nil {
			s.logger.Warn().
				Str("user_id", params.UserID).
				Str("email", params.Email).
				Msg("account value already taken")
			return taken
		}

		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to update user")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("user_id", params.UserID).
			Msg("user not found")
		return ErrUserNotFound
	}

	if params.Image != nil {
		const updateProfileImageQuery = `
UPDATE profiles
SET image = $1,
    updated_at = $2
WHERE user_id = $3
`
		_, err = tx.Exec(
			ctx,
			updateProfileImageQuery,
			*params.Image,
			now,
			params.UserID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", params.UserID).
				Msg("failed to update profile image")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Bool("image_changed", params.Image != nil).
		Msg("updated profile")
	return nil
}
