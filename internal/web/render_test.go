package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTemplatesParseAtStartup(t *testing.T) {
	// Every page template must be in the cache, keyed by filename.
	for _, page := range []string{
		"index.html", "register.html", "login.html", "tasks.html",
		"profile.html", "update_profile.html", "forgot_password.html",
		"reset_security.html", "reset_password_new.html", "contact.html",
		"page.html", "notfound.html",
	} {
		if _, ok := templates[page]; !ok {
			t.Errorf("template %q missing from cache", page)
		}
	}
	if _, ok := templates["base.layout.html"]; ok {
		t.Error("base layout cached as a page")
	}
}

func TestRender(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/forgot_password", nil)

	Render(rr, r, "forgot_password.html", &PageData{Title: "Forgot Password"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Forgot Password") {
		t.Error("rendered page missing the title")
	}
	if !strings.Contains(body, `name="identifier"`) {
		t.Error("rendered page missing the form field")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Render(rr, r, "does_not_exist.html", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
