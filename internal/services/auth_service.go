package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkrail/go-todo-web/internal/models"
)

type authServiceImpl struct {
	logger          zerolog.Logger
	pgPool          *pgxpool.Pool
	sessionTTL      time.Duration
	resetIssuer     string
	resetSigningKey []byte
	resetTokenTTL   time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	sessionTTL time.Duration,
	resetIssuer string,
	resetSigningKey []byte,
	resetTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:          logger,
		pgPool:          pgPool,
		sessionTTL:      sessionTTL,
		resetIssuer:     resetIssuer,
		resetSigningKey: resetSigningKey,
		resetTokenTTL:   resetTokenTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, *models.Session, error) {
	now := time.Now()
	user := &models.User{
		Username:  params.Username,
		Email:     params.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, nil, err
	}
	user.Password = passwordHash

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUserQuery = `
INSERT INTO users (id,
                   username,
                   email,
                   password,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = tx.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if taken := mapUniqueViolation(err); taken != nil {
			s.logger.Warn().
				Str("username", user.Username).
				Str("email", user.Email).
				Msg("user already exists")
			return nil, nil, taken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	// Profile rows are one-to-one with users and start on the
	// placeholder image.
	profileUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate profile uuid")
		return nil, nil, err
	}

	const insertProfileQuery = `
INSERT INTO profiles (id,
                      user_id,
                      image,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = tx.Exec(
		ctx,
		insertProfileQuery,
		profileUUID.String(),
		user.ID,
		models.DefaultProfileImage,
		now,
		now,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert profile")
		return nil, nil, err
	}
	s.logger.Debug().
		Str("profile_id", profileUUID.String()).
		Str("user_id", user.ID).
		Msg("inserted profile")

	session, err := insertSession(ctx, tx, user.ID, s.sessionTTL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return nil, nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("registered user")
	return user, session, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*models.User, *models.Session, error) {
	user := &models.User{
		Username: params.Username,
	}

	const selectUserByUsernameQuery = `
SELECT id,
       email,
       password
FROM users
WHERE username = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByUsernameQuery,
		user.Username,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("username", user.Username).
				Msg("user not found")
			return nil, nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to select user by username")
		return nil, nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, nil, err
	} else if !match {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, nil, ErrUserPasswordMismatch
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	tag, err := tx.Exec(
		ctx,
		deleteSessionsByUserIDQuery,
		user.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete sessions by user id")
		return nil, nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted sessions by user id")

	session, err := insertSession(ctx, tx, user.ID, s.sessionTTL)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return nil, nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("logged in")
	return user, session, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteSessionsByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var userID string

	const selectUserByEmailQuery = `
SELECT id
FROM users
WHERE email = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		email,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("email", email).
				Msg("no account for reset email")
			return "", ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by email")
		return "", err
	}

	token, err := s.generateResetToken(userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate reset token")
		return "", err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("issued password reset token")
	return token, nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := s.parseResetToken(token)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("rejected reset token")
		return ErrInvalidResetToken
	}

	passwordHash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}

	const updatePasswordQuery = `
UPDATE users
SET password = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(
		ctx,
		updatePasswordQuery,
		passwordHash,
		time.Now(),
		claims.Subject,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("failed to update password")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("user_id", claims.Subject).
			Msg("reset token for unknown user")
		return ErrUserNotFound
	}

	s.logger.Info().
		Str("user_id", claims.Subject).
		Msg("reset password")
	return nil
}

func (s *authServiceImpl) generateResetToken(userID string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.resetIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTokenTTL)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.resetSigningKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authServiceImpl) parseResetToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.resetSigningKey, nil
		},
		jwt.WithIssuer(s.resetIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("unexpected token claims")
	}
	return claims, nil
}

// insertSession creates a session row inside the caller's transaction.
func insertSession(ctx context.Context, tx pgx.Tx, userID string, ttl time.Duration) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session uuid: %w", err)
	}
	session.ID = sessionUUID.String()

	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = tx.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// mapUniqueViolation translates a users-table unique violation into the
// sentinel for the column that collided, or nil for other errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailTaken
	case "users_username_key":
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
