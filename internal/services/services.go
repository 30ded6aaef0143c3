package services

import (
	"context"
	"errors"
	"time"

	"github.com/mkrail/go-todo-web/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrEmailTaken           = errors.New("email already in use")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskNoPermission     = errors.New("no permission to delete task")
	ErrInvalidResetToken    = errors.New("invalid reset token")
)

type AuthService interface {
	// Register creates the user, an empty profile and a fresh session
	// in a single transaction.
	//
	// It returns ErrUsernameTaken or ErrEmailTaken when the matching
	// unique index rejects the insert.
	Register(ctx context.Context, params RegisterParams) (*models.User, *models.Session, error)

	// Login verifies the credentials and establishes a new session,
	// invalidating any previous sessions of the same user.
	//
	// It returns ErrUserNotFound if the username is unknown or
	// ErrUserPasswordMismatch if the password doesn't verify.
	Login(ctx context.Context, params LoginParams) (*models.User, *models.Session, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// RequestPasswordReset issues a short-lived signed reset token for
	// the account bound to the email, or ErrUserNotFound.
	RequestPasswordReset(ctx context.Context, email string) (string, error)

	// ResetPassword verifies a reset token and replaces the password
	// of the user it was issued for. It returns ErrInvalidResetToken
	// when the token doesn't parse, is expired, or was issued by
	// someone else.
	ResetPassword(ctx context.Context, token, password string) error
}

type SessionService interface {
	// GetSessionByID resolves a session cookie value. It returns
	// ErrSessionNotFound for unknown IDs and ErrSessionExpired for
	// sessions past their expiry.
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type TaskService interface {
	// CreateTask persists a new task owned by task.UserID and returns
	// it with the assigned ID and timestamps.
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)

	// ListTasks returns the owner's tasks matching the filter, ordered
	// by priority (desc), incomplete first, then due date, plus
	// aggregate counts computed over the owner's unfiltered set.
	ListTasks(ctx context.Context, userID string, filter TaskFilter, today time.Time) ([]*models.Task, TaskCounts, error)

	// GetTask returns the task only when it is owned by userID;
	// anything else is ErrTaskNotFound.
	GetTask(ctx context.Context, id int64, userID string) (*models.Task, error)

	// UpdateTask rewrites the editable fields of an owned task.
	// The owner never changes.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// ToggleTask flips the completed flag in place.
	ToggleTask(ctx context.Context, id int64, userID string) (*models.Task, error)

	// DeleteTask removes an owned task. A miss on the owner-scoped
	// delete is re-checked: ErrTaskNoPermission when the task exists
	// under another owner, ErrTaskNotFound when it is gone.
	DeleteTask(ctx context.Context, id int64, userID string) error
}

type ProfileService interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetOrCreateProfile lazily creates the one-to-one profile row
	// with the placeholder image on first access.
	GetOrCreateProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile saves the account fields and, when Image is set,
	// the new image path, in one transaction. It returns
	// ErrUsernameTaken or ErrEmailTaken when another account holds
	// the value; nothing is saved in that case.
	UpdateProfile(ctx context.Context, params UpdateProfileParams) error
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type LoginParams struct {
	Username string
	Password string
}

type TaskFilter struct {
	// Status is "active", "completed" or empty for all.
	Status string
	// Priority filters on an exact match when in [1,5]; zero means off.
	Priority int
}

type TaskCounts struct {
	Total     int
	Active    int
	Completed int
	Overdue   int
}

type UpdateTaskParams struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
}

type UpdateProfileParams struct {
	UserID   string
	Username string
	Email    string
	// Image is the new media-relative image path; nil leaves the
	// current picture untouched.
	Image *string
}
