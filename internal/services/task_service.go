package services

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkrail/go-todo-web/internal/models"
)

// pgxSB builds statements with dollar placeholders for pgx.
var pgxSB = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	now := time.Now()
	task = &models.Task{
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   false,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   completed,
                   priority,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID string,
	filter TaskFilter,
	today time.Time,
) ([]*models.Task, TaskCounts, error) {
	builder := pgxSB.
		Select("id", "title", "description", "completed",
			"priority", "due_date", "created_at", "updated_at").
		From("tasks").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("priority DESC", "completed ASC", "due_date ASC NULLS LAST", "id ASC")

	switch filter.Status {
	case "active":
		builder = builder.Where(sq.Eq{"completed": false})
	case "completed":
		builder = builder.Where(sq.Eq{"completed": true})
	}
	if filter.Priority >= models.PriorityMin && filter.Priority <= models.PriorityMax {
		builder = builder.Where(sq.Eq{"priority": filter.Priority})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to build task list query")
		return nil, TaskCounts{}, err
	}

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, TaskCounts{}, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, TaskCounts{}, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, TaskCounts{}, err
	}

	// Counts always cover the full owner set, not the filtered page.
	const countTasksQuery = `
SELECT count(*),
       count(*) FILTER (WHERE NOT completed),
       count(*) FILTER (WHERE completed),
       count(*) FILTER (WHERE NOT completed AND due_date < $2)
FROM tasks
WHERE user_id = $1
`
	var counts TaskCounts
	err = s.pgPool.QueryRow(
		ctx,
		countTasksQuery,
		userID,
		models.DateOf(today),
	).Scan(
		&counts.Total,
		&counts.Active,
		&counts.Completed,
		&counts.Overdue,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks")
		return nil, TaskCounts{}, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", counts.Total).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, counts, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64, userID string) (*models.Task, error) {
	task := &models.Task{
		ID:     id,
		UserID: userID,
	}

	const selectTaskQuery = `
SELECT title,
       description,
       completed,
       priority,
       due_date,
       created_at,
       updated_at
FROM tasks
WHERE id = $1 AND user_id = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to select task")
		return nil, err
	}

	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task := &models.Task{
		ID:          params.ID,
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		UpdatedAt:   time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    priority = $3,
    due_date = $4,
    updated_at = $5
WHERE id = $6 AND user_id = $7
RETURNING completed, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Completed,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ToggleTask(ctx context.Context, id int64, userID string) (*models.Task, error) {
	task := &models.Task{
		ID:        id,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	const toggleTaskQuery = `
UPDATE tasks
SET completed = NOT completed,
    updated_at = $1
WHERE id = $2 AND user_id = $3
RETURNING title, description, completed, priority, due_date, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		toggleTaskQuery,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to toggle task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Bool("completed", task.Completed).
		Msg("toggled task completion")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64, userID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}

	if tag.RowsAffected() == 0 {
		// The owner-scoped delete missed. Tell apart a foreign task
		// from one that is already gone.
		const taskExistsQuery = `
SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)
`
		var exists bool
		err = s.pgPool.QueryRow(ctx, taskExistsQuery, id).Scan(&exists)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", id).
				Msg("failed to re-check task existence")
			return err
		}

		if exists {
			s.logger.Warn().
				Int64("task_id", id).
				Str("user_id", userID).
				Msg("task owned by another user")
			return ErrTaskNoPermission
		}
		s.logger.Warn().
			Int64("task_id", id).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", id).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
