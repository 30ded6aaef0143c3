package web_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mkrail/go-todo-web/internal/models"
	"github.com/mkrail/go-todo-web/internal/services"
)

// fakeStore backs all fake services with plain in-memory maps. It
// keeps the same ownership and uniqueness semantics as the SQL layer
// so handlers can be exercised without a database. Passwords are
// stored as-is; hashing is not what these tests are about.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	sessions    map[string]*models.Session
	tasks       map[int64]*models.Task
	profiles    map[string]*models.Profile
	resetTokens map[string]string
	nextTaskID  int64
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*models.User),
		sessions:    make(map[string]*models.Session),
		tasks:       make(map[int64]*models.Task),
		profiles:    make(map[string]*models.Profile),
		resetTokens: make(map[string]string),
	}
}

func (st *fakeStore) newID(prefix string) string {
	st.nextID++
	return fmt.Sprintf("%s-%d", prefix, st.nextID)
}

func (st *fakeStore) addUser(username, email, password string) *models.User {
	st.mu.Lock()
	defer st.mu.Unlock()

	user := &models.User{
		ID:       st.newID("user"),
		Username: username,
		Email:    email,
		Password: password,
	}
	st.users[user.ID] = user
	st.profiles[user.ID] = &models.Profile{
		ID:     st.newID("profile"),
		UserID: user.ID,
		Image:  models.DefaultProfileImage,
	}
	return user
}

func (st *fakeStore) addSession(userID string) *models.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	session := &models.Session{
		ID:        st.newID("session"),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	st.sessions[session.ID] = session
	return session
}

func (st *fakeStore) addTask(userID, title string, priority int, completed bool, due *time.Time) *models.Task {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.nextTaskID++
	task := &models.Task{
		ID:        st.nextTaskID,
		UserID:    userID,
		Title:     title,
		Priority:  priority,
		Completed: completed,
		DueDate:   due,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	st.tasks[task.ID] = task
	return task
}

type fakeAuthService struct{ st *fakeStore }

func (s *fakeAuthService) Register(_ context.Context, params services.RegisterParams) (*models.User, *models.Session, error) {
	s.st.mu.Lock()
	for _, u := range s.st.users {
		if u.Email == params.Email {
			s.st.mu.Unlock()
			return nil, nil, services.ErrEmailTaken
		}
		if u.Username == params.Username {
			s.st.mu.Unlock()
			return nil, nil, services.ErrUsernameTaken
		}
	}
	s.st.mu.Unlock()

	user := s.st.addUser(params.Username, params.Email, params.Password)
	session := s.st.addSession(user.ID)
	return user, session, nil
}

func (s *fakeAuthService) Login(_ context.Context, params services.LoginParams) (*models.User, *models.Session, error) {
	s.st.mu.Lock()
	var user *models.User
	for _, u := range s.st.users {
		if u.Username == params.Username {
			user = u
			break
		}
	}
	if user == nil {
		s.st.mu.Unlock()
		return nil, nil, services.ErrUserNotFound
	}
	if user.Password != params.Password {
		s.st.mu.Unlock()
		return nil, nil, services.ErrUserPasswordMismatch
	}
	for id, sess := range s.st.sessions {
		if sess.UserID == user.ID {
			delete(s.st.sessions, id)
		}
	}
	s.st.mu.Unlock()

	return user, s.st.addSession(user.ID), nil
}

func (s *fakeAuthService) Logout(_ context.Context, userID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	for id, sess := range s.st.sessions {
		if sess.UserID == userID {
			delete(s.st.sessions, id)
		}
	}
	return nil
}

func (s *fakeAuthService) RequestPasswordReset(_ context.Context, email string) (string, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	for _, u := range s.st.users {
		if u.Email == email {
			token := s.st.newID("reset")
			s.st.resetTokens[token] = u.ID
			return token, nil
		}
	}
	return "", services.ErrUserNotFound
}

func (s *fakeAuthService) ResetPassword(_ context.Context, token, password string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	userID, ok := s.st.resetTokens[token]
	if !ok {
		return services.ErrInvalidResetToken
	}
	user, ok := s.st.users[userID]
	if !ok {
		return services.ErrUserNotFound
	}
	user.Password = password
	delete(s.st.resetTokens, token)
	return nil
}

type fakeSessionService struct{ st *fakeStore }

func (s *fakeSessionService) GetSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	session, ok := s.st.sessions[sessionID]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		return nil, services.ErrSessionExpired
	}
	copied := *session
	return &copied, nil
}

type fakeTaskService struct{ st *fakeStore }

func (s *fakeTaskService) CreateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	created := s.st.addTask(task.UserID, task.Title, task.Priority, false, task.DueDate)
	created.Description = task.Description
	return created, nil
}

func (s *fakeTaskService) ListTasks(
	_ context.Context,
	userID string,
	filter services.TaskFilter,
	today time.Time,
) ([]*models.Task, services.TaskCounts, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	var owned []*models.Task
	var counts services.TaskCounts
	for _, task := range s.st.tasks {
		if task.UserID != userID {
			continue
		}
		counts.Total++
		if task.Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
		if task.IsOverdue(today) {
			counts.Overdue++
		}
		owned = append(owned, task)
	}

	var filtered []*models.Task
	for _, task := range owned {
		if filter.Status == "active" && task.Completed {
			continue
		}
		if filter.Status == "completed" && !task.Completed {
			continue
		}
		if filter.Priority >= models.PriorityMin && filter.Priority <= models.PriorityMax &&
			task.Priority != filter.Priority {
			continue
		}
		filtered = append(filtered, task)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if cmp := compareDueDates(a.DueDate, b.DueDate); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})

	return filtered, counts, nil
}

func compareDueDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	}
	return 0
}

func (s *fakeTaskService) GetTask(_ context.Context, id int64, userID string) (*models.Task, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	task, ok := s.st.tasks[id]
	if !ok || task.UserID != userID {
		return nil, services.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *fakeTaskService) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	task, ok := s.st.tasks[params.ID]
	if !ok || task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}
	task.Title = params.Title
	task.Description = params.Description
	task.Priority = params.Priority
	task.DueDate = params.DueDate
	task.UpdatedAt = time.Now()
	copied := *task
	return &copied, nil
}

func (s *fakeTaskService) ToggleTask(_ context.Context, id int64, userID string) (*models.Task, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	task, ok := s.st.tasks[id]
	if !ok || task.UserID != userID {
		return nil, services.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	task.UpdatedAt = time.Now()
	copied := *task
	return &copied, nil
}

func (s *fakeTaskService) DeleteTask(_ context.Context, id int64, userID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	task, ok := s.st.tasks[id]
	if !ok {
		return services.ErrTaskNotFound
	}
	if task.UserID != userID {
		return services.ErrTaskNoPermission
	}
	delete(s.st.tasks, id)
	return nil
}

type fakeProfileService struct{ st *fakeStore }

func (s *fakeProfileService) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	user, ok := s.st.users[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeProfileService) GetOrCreateProfile(_ context.Context, userID string) (*models.Profile, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	profile, ok := s.st.profiles[userID]
	if !ok {
		profile = &models.Profile{
			ID:     s.st.newID("profile"),
			UserID: userID,
			Image:  models.DefaultProfileImage,
		}
		s.st.profiles[userID] = profile
	}
	copied := *profile
	return &copied, nil
}

func (s *fakeProfileService) UpdateProfile(_ context.Context, params services.UpdateProfileParams) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	user, ok := s.st.users[params.UserID]
	if !ok {
		return services.ErrUserNotFound
	}
	for _, u := range s.st.users {
		if u.ID == params.UserID {
			continue
		}
		if u.Email == params.Email {
			return services.ErrEmailTaken
		}
		if u.Username == params.Username {
			return services.ErrUsernameTaken
		}
	}

	user.Username = params.Username
	user.Email = params.Email
	if params.Image != nil {
		profile, ok := s.st.profiles[params.UserID]
		if ok {
			profile.Image = *params.Image
		}
	}
	return nil
}
