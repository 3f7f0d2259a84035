package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tasklight/tasklight/internal/ctxkeys"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/web"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	tasks, err := h.tasks.Tasks(user.ID)
	if err != nil {
		web.ServerError(w, err)
		return
	}

	web.Render(w, r, "tasks.html", &web.PageData{
		Title: "My Tasks",
		Tasks: tasks,
	})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(r.PostFormValue("content"))
	dueDate := strings.TrimSpace(r.PostFormValue("due_date"))

	_, err := h.tasks.Create(user.ID, content, dueDate)
	switch {
	case err == nil:
		web.AddFlash(w, r, "Task added.", "success")
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrInvalidDueDate):
		web.AddFlash(w, r, capitalize(err.Error()), "error")
	default:
		web.ServerError(w, err)
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	taskID, err := strconv.ParseInt(r.PathValue("task_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	_, err = h.tasks.Complete(user.ID, taskID)
	switch {
	case err == nil:
		web.AddFlash(w, r, "Task completed.", "success")
	case errors.Is(err, repository.ErrTaskNotFound):
		web.AddFlash(w, r, "Task not found.", "error")
	case errors.Is(err, service.ErrTaskForbidden):
		web.AddFlash(w, r, "You can only complete your own tasks.", "error")
	default:
		slog.Error("failed to complete task", "task_id", taskID, "error", err)
		web.AddFlash(w, r, "Something went wrong. Please try again.", "error")
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	taskID, err := strconv.ParseInt(r.PathValue("task_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = h.tasks.Delete(user.ID, taskID)
	switch {
	case err == nil:
		web.AddFlash(w, r, "Task deleted.", "success")
	case errors.Is(err, repository.ErrTaskNotFound):
		web.AddFlash(w, r, "Task not found.", "error")
	case errors.Is(err, service.ErrTaskForbidden):
		web.AddFlash(w, r, "You can only delete your own tasks.", "error")
	default:
		slog.Error("failed to delete task", "task_id", taskID, "error", err)
		web.AddFlash(w, r, "Something went wrong. Please try again.", "error")
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
