package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "flash"

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"` // success, info, error
}

// AddFlash queues a notice in the flash cookie. Existing notices are
// preserved so multiple flashes survive a redirect chain.
func AddFlash(w http.ResponseWriter, r *http.Request, message, category string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Message: message, Category: category})

	encoded, err := json.Marshal(flashes)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns queued notices and clears the cookie.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	err = json.Unmarshal(decoded, &flashes)
	if err != nil {
		return nil
	}

	return flashes
}
