package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tasklight/tasklight/internal/ctxkeys"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/web"
)

type ProfileHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewProfileHandler(users *service.UserService, auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{users: users, auth: auth}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	web.Render(w, r, "profile.html", &web.PageData{
		Title:     "Profile",
		AvatarURL: h.users.AvatarURL(user),
	})
}

func (h *ProfileHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	web.Render(w, r, "update_profile.html", &web.PageData{
		Title:     "Edit Profile",
		AvatarURL: h.users.AvatarURL(user),
	})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		web.AddFlash(w, r, "Upload too large or malformed form.", "error")
		http.Redirect(w, r, "/update_profile", http.StatusSeeOther)
		return
	}

	// The form has two submit buttons, photo removal wins when both
	// are somehow present.
	if r.PostFormValue("remove_photo") != "" {
		h.removePhoto(w, r, user.ID)
		return
	}

	input := service.UpdateProfileInput{}
	if v := strings.TrimSpace(r.PostFormValue("username")); v != "" && v != user.Username {
		input.Username = &v
	}
	if v := strings.TrimSpace(r.PostFormValue("fullname")); v != "" && v != user.FullName {
		input.FullName = &v
	}
	phone := strings.TrimSpace(r.PostFormValue("phone"))
	input.Phone = &phone
	if file, header, err := r.FormFile("picture"); err == nil {
		file.Close()
		input.Picture = header
	}

	_, err := h.users.UpdateProfile(user.ID, input)
	switch {
	case err == nil:
		web.AddFlash(w, r, "Profile updated.", "success")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	case errors.Is(err, repository.ErrDuplicateUsername):
		web.AddFlash(w, r, "That username is already taken.", "error")
	case isValidationError(err):
		web.AddFlash(w, r, capitalize(err.Error()), "error")
	default:
		web.ServerError(w, err)
		return
	}

	http.Redirect(w, r, "/update_profile", http.StatusSeeOther)
}

func (h *ProfileHandler) removePhoto(w http.ResponseWriter, r *http.Request, userID int64) {
	_, err := h.users.RemovePhoto(userID)
	switch {
	case err == nil:
		web.AddFlash(w, r, "Profile photo removed.", "success")
	case errors.Is(err, service.ErrNoPhotoToRemove):
		web.AddFlash(w, r, "You do not have a custom photo to remove.", "info")
	default:
		web.ServerError(w, err)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.users.DeleteAccount(user.ID); err != nil {
		web.ServerError(w, err)
		return
	}

	h.auth.ClearSessionCookie(w)
	web.AddFlash(w, r, "Your account and all its tasks have been deleted.", "info")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// isValidationError reports whether the error carries a message safe
// to show to the user rather than a storage or IO failure.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"required", "too long", "too large", "must not", "invalid", "unsupported"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
