package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/web"
)

type RecoveryHandler struct {
	recovery *service.RecoveryService
}

func NewRecoveryHandler(recovery *service.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery}
}

func (h *RecoveryHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, "forgot_password.html", &web.PageData{Title: "Forgot Password"})
}

func (h *RecoveryHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimSpace(r.PostFormValue("identifier"))

	user, err := h.recovery.Identify(identifier)
	switch {
	case err == nil:
		http.Redirect(w, r, "/reset_security/"+strconv.FormatInt(user.ID, 10), http.StatusSeeOther)
		return
	case errors.Is(err, repository.ErrUserNotFound):
		web.AddFlash(w, r, "No account found for that username or email.", "error")
		http.Redirect(w, r, "/forgot_password", http.StatusSeeOther)
		return
	default:
		web.ServerError(w, err)
	}
}

func (h *RecoveryHandler) QuestionForm(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	question, err := h.recovery.Question(userID)
	switch {
	case err == nil:
		web.Render(w, r, "reset_security.html", &web.PageData{
			Title:    "Security Question",
			Question: question,
			UserID:   userID,
		})
	case errors.Is(err, repository.ErrUserNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrRecoveryDisabled):
		web.AddFlash(w, r, "That account has no security question set.", "error")
		http.Redirect(w, r, "/forgot_password", http.StatusSeeOther)
	default:
		web.ServerError(w, err)
	}
}

func (h *RecoveryHandler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	answer := strings.TrimSpace(r.PostFormValue("answer"))

	err = h.recovery.VerifyAnswer(userID, answer)
	switch {
	case err == nil:
		http.Redirect(w, r, "/reset_password_new/"+strconv.FormatInt(userID, 10), http.StatusSeeOther)
	case errors.Is(err, service.ErrWrongAnswer):
		web.AddFlash(w, r, "That answer is not correct. Try again.", "error")
		http.Redirect(w, r, "/reset_security/"+strconv.FormatInt(userID, 10), http.StatusSeeOther)
	case errors.Is(err, repository.ErrUserNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrRecoveryDisabled):
		web.AddFlash(w, r, "That account has no security question set.", "error")
		http.Redirect(w, r, "/forgot_password", http.StatusSeeOther)
	default:
		web.ServerError(w, err)
	}
}

func (h *RecoveryHandler) NewPasswordForm(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	web.Render(w, r, "reset_password_new.html", &web.PageData{
		Title:  "New Password",
		UserID: userID,
	})
}

func (h *RecoveryHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err = h.recovery.ResetPassword(userID, r.PostFormValue("password"))
	switch {
	case err == nil:
		web.AddFlash(w, r, "Password updated. You can sign in now.", "success")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, service.ErrPasswordRequired):
		web.AddFlash(w, r, "Password is required.", "error")
		http.Redirect(w, r, "/reset_password_new/"+strconv.FormatInt(userID, 10), http.StatusSeeOther)
	case errors.Is(err, repository.ErrUserNotFound):
		http.NotFound(w, r)
	default:
		web.ServerError(w, err)
	}
}
