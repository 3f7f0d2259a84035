package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/web"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, "register.html", &web.PageData{Title: "Register"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := service.RegisterInput{
		Username:         strings.TrimSpace(r.PostFormValue("username")),
		FullName:         strings.TrimSpace(r.PostFormValue("fullname")),
		Phone:            strings.TrimSpace(r.PostFormValue("phone")),
		Email:            strings.TrimSpace(r.PostFormValue("email")),
		Password:         r.PostFormValue("password"),
		SecurityQuestion: strings.TrimSpace(r.PostFormValue("security_question")),
		SecurityAnswer:   strings.TrimSpace(r.PostFormValue("security_answer")),
	}

	_, err := h.auth.Register(input)
	if err != nil {
		web.AddFlash(w, r, registerErrorMessage(err), "error")
		web.Render(w, r, "register.html", &web.PageData{
			Title: "Register",
			Form: map[string]string{
				"username": input.Username,
				"fullname": input.FullName,
				"phone":    input.Phone,
				"email":    input.Email,
			},
		})
		return
	}

	web.AddFlash(w, r, "Account created. You can sign in now.", "success")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return "That username is already taken."
	case errors.Is(err, repository.ErrDuplicateEmail):
		return "An account with that email already exists."
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrMissingSecurityAnswer):
		return capitalize(err.Error())
	default:
		return capitalize(err.Error())
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, "login.html", &web.PageData{
		Title: "Sign in",
		Form:  map[string]string{"next": r.URL.Query().Get("next")},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimSpace(r.PostFormValue("login_identifier"))
	password := r.PostFormValue("password")

	user, err := h.auth.Login(identifier, password)
	if err != nil {
		web.AddFlash(w, r, "Invalid username/email or password.", "error")
		web.Render(w, r, "login.html", &web.PageData{
			Title: "Sign in",
			Form: map[string]string{
				"login_identifier": identifier,
				"next":             r.URL.Query().Get("next"),
			},
		})
		return
	}

	token, err := h.auth.GenerateSession(user)
	if err != nil {
		web.ServerError(w, err)
		return
	}
	h.auth.SetSessionCookie(w, token)

	web.AddFlash(w, r, "Welcome back, "+user.Username+"!", "success")
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSessionCookie(w)
	web.AddFlash(w, r, "You have been signed out.", "info")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext only allows same-site relative redirect targets, falling
// back to the task list for anything that could leave the app.
func safeNext(next string) string {
	if next == "" {
		return "/tasks"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/tasks"
	}
	return u.Path
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
