package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/web"
)

type HomeHandler struct {
	content *service.ContentService
}

func NewHomeHandler(content *service.ContentService) *HomeHandler {
	return &HomeHandler{content: content}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	// "GET /{$}" is not used so unmatched paths can share this handler.
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	web.Render(w, r, "index.html", &web.PageData{Title: ""})
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	web.Render(w, r, "notfound.html", &web.PageData{Title: "Not Found"})
}

func (h *HomeHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	page, err := h.content.Page(slug)
	switch {
	case err == nil:
		web.Render(w, r, "page.html", &web.PageData{Title: page.Title, Page: page})
	case errors.Is(err, service.ErrPageNotFound):
		h.NotFound(w, r)
	default:
		web.ServerError(w, err)
	}
}

func (h *HomeHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	web.Render(w, r, "contact.html", &web.PageData{Title: "Contact"})
}

func (h *HomeHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	message := strings.TrimSpace(r.PostFormValue("message"))

	if name == "" || email == "" || message == "" {
		web.AddFlash(w, r, "All fields are required.", "error")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	// Messages are logged rather than mailed. Hooking up an email
	// provider only needs a sender here.
	slog.Info("contact message received",
		"name", name,
		"email", email,
		"message", message,
	)

	web.AddFlash(w, r, "Thanks for reaching out. We will get back to you.", "success")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}
