package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkrail/go-todo-web/internal/forms"
	"github.com/mkrail/go-todo-web/internal/models"
	"github.com/mkrail/go-todo-web/internal/services"
)

// taskView decorates a task with the derived values templates show.
type taskView struct {
	*models.Task
	Overdue       bool
	HasDueDate    bool
	DaysUntilDue  int
	PriorityLabel string
}

func newTaskView(task *models.Task, today time.Time) taskView {
	days, hasDue := task.DaysUntilDue(today)
	return taskView{
		Task:          task,
		Overdue:       task.IsOverdue(today),
		HasDueDate:    hasDue,
		DaysUntilDue:  days,
		PriorityLabel: models.PriorityLabels[task.Priority],
	}
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	filter := services.TaskFilter{}
	status := c.Query("status")
	if status == "active" || status == "completed" {
		filter.Status = status
	}
	// Non-numeric priority values are ignored, not rejected.
	if priority, err := strconv.Atoi(c.Query("priority")); err == nil {
		filter.Priority = priority
	}

	today := time.Now()
	tasks, counts, err := h.tasks.ListTasks(c, userID, filter, today)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list tasks")
		h.setFlash(c, flashError, "Something went wrong while loading your tasks.")
		h.render(c, http.StatusInternalServerError, "list.html", gin.H{
			"Tasks":          []taskView{},
			"TotalCount":     0,
			"ActiveCount":    0,
			"CompletedCount": 0,
			"OverdueCount":   0,
			"CurrentFilter":  "all",
			"PriorityFilter": "",
		})
		return
	}

	views := make([]taskView, len(tasks))
	for i, task := range tasks {
		views[i] = newTaskView(task, today)
	}

	h.render(c, http.StatusOK, "list.html", gin.H{
		"Tasks":          views,
		"TotalCount":     counts.Total,
		"ActiveCount":    counts.Active,
		"CompletedCount": counts.Completed,
		"OverdueCount":   counts.Overdue,
		"CurrentFilter":  c.DefaultQuery("status", "all"),
		"PriorityFilter": c.Query("priority"),
	})
}

func (h *handlerImpl) HandleNewTaskPage(c *gin.Context) {
	h.render(c, http.StatusOK, "task_form.html", gin.H{
		"PageTitle": "Create New Task",
		"Form":      forms.TaskForm{Priority: models.PriorityDefault},
		"Errors":    forms.Errors{},
	})
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	form, due, errs := h.bindTaskForm(c)
	if !errs.Empty() {
		h.render(c, http.StatusOK, "task_form.html", gin.H{
			"PageTitle": "Create New Task",
			"Form":      form,
			"Errors":    errs,
		})
		return
	}

	task, err := h.tasks.CreateTask(c, &models.Task{
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		DueDate:     due,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to create task")
		h.setFlash(c, flashError, "Something went wrong while saving the task.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.setFlash(c, flashSuccess, fmt.Sprintf("Task %q created successfully!", task.Title))
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleEditTaskPage(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, taskID, userID)
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	form := forms.TaskForm{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
	}
	if task.DueDate != nil {
		form.DueDate = task.DueDate.Format(forms.DateLayout)
	}

	h.render(c, http.StatusOK, "task_form.html", gin.H{
		"PageTitle": "Edit: " + task.Title,
		"TaskID":    task.ID,
		"Form":      form,
		"Errors":    forms.Errors{},
	})
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	form, due, errs := h.bindTaskForm(c)
	if !errs.Empty() {
		h.render(c, http.StatusOK, "task_form.html", gin.H{
			"PageTitle": "Edit Task",
			"TaskID":    taskID,
			"Form":      form,
			"Errors":    errs,
		})
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		DueDate:     due,
	})
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	h.setFlash(c, flashSuccess, fmt.Sprintf("Task %q updated successfully!", task.Title))
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleDeleteTaskPage(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, taskID, userID)
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	h.render(c, http.StatusOK, "task_confirm_delete.html", gin.H{
		"PageTitle": "Delete Task: " + task.Title,
		"Task":      newTaskView(task, time.Now()),
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	// Resolve the title through the owner-scoped lookup first; the
	// delete below re-checks ownership on its own.
	task, err := h.tasks.GetTask(c, taskID, userID)
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	err = h.tasks.DeleteTask(c, taskID, userID)
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		h.setFlash(c, flashError, "Task not found or already deleted.")
	case errors.Is(err, services.ErrTaskNoPermission):
		h.setFlash(c, flashError, "You don't have permission to delete this task.")
	case err != nil:
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		h.setFlash(c, flashError, "An error occurred while deleting the task.")
	default:
		h.setFlash(c, flashSuccess, fmt.Sprintf("Task %q has been deleted successfully!", task.Title))
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login/")
		return
	}

	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTask(c, taskID, userID)
	if err != nil {
		h.redirectTaskError(c, err)
		return
	}

	status := "marked as active"
	if task.Completed {
		status = "completed"
	}
	h.setFlash(c, flashInfo, fmt.Sprintf("Task %q %s.", task.Title, status))
	c.Redirect(http.StatusFound, "/")
}

// bindTaskForm binds and validates a task post. A priority that fails
// to bind as an integer surfaces as a field error, not a 400.
func (h *handlerImpl) bindTaskForm(c *gin.Context) (forms.TaskForm, *time.Time, forms.Errors) {
	var form forms.TaskForm
	err := c.ShouldBind(&form)
	if err != nil {
		form.Title = c.PostForm("title")
		form.Description = c.PostForm("description")
		form.DueDate = c.PostForm("due_date")
		errs := forms.Errors{}
		errs.Add("priority", "Select a valid priority.")
		return form, nil, errs
	}

	due, errs := form.Validate(time.Now())
	return form, due, errs
}

func (h *handlerImpl) taskIDParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.setFlash(c, flashError, "Task not found.")
		c.Redirect(http.StatusFound, "/")
		return 0, false
	}
	return taskID, true
}

// redirectTaskError maps a task lookup failure to the list page with a
// flash. Ownership misses read as not-found, never as forbidden.
func (h *handlerImpl) redirectTaskError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		h.setFlash(c, flashError, "Task not found.")
	} else {
		h.logger.Error().
			Err(err).
			Msg("task operation failed")
		h.setFlash(c, flashError, "Something went wrong. Please try again.")
	}
	c.Redirect(http.StatusFound, "/")
}
