package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/tasklight/tasklight/internal/ctxkeys"
	"github.com/tasklight/tasklight/internal/model"
	"github.com/tasklight/tasklight/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the data bag handed to every template. Handlers fill the
// page-specific fields; Render fills the request-scoped ones.
type PageData struct {
	Title       string
	AppName     string
	Path        string
	CSRFToken   string
	CurrentUser *model.User
	AvatarURL   string
	Flashes     []Flash
	Now         time.Time

	Tasks    []*model.Task
	Question string
	UserID   int64
	Page     *service.ContentPage
	Form     map[string]string
}

// templates maps a page filename to its parsed template set (page plus
// the base layout). Built once; the embedded files never change at
// runtime.
var templates = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	ts := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == "base.layout.html" {
			continue
		}

		t, err := template.New(name).Funcs(functions).ParseFS(templatesFS,
			"templates/base.layout.html",
			file,
		)
		if err != nil {
			panic(fmt.Sprintf("failed to parse template %s: %v", name, err))
		}
		ts[name] = t
	}

	return ts
}

var functions = template.FuncMap{
	"formatDate": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// Render executes the named page template inside the base layout,
// buffering output so a template error can still produce a clean 500.
func Render(w http.ResponseWriter, r *http.Request, pageFile string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}

	data.Path = ctxkeys.URLPath(r.Context())
	data.CSRFToken = ctxkeys.CSRFToken(r.Context())
	data.Now = time.Now()
	if data.CurrentUser == nil {
		data.CurrentUser = ctxkeys.User(r.Context())
	}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		data.AppName = cfg.AppName
	}
	if data.Flashes == nil {
		data.Flashes = PopFlashes(w, r)
	}

	ts, ok := templates[pageFile]
	if !ok {
		ServerError(w, fmt.Errorf("unknown template %q", pageFile))
		return
	}

	buf := new(bytes.Buffer)
	err := ts.ExecuteTemplate(buf, "base", data)
	if err != nil {
		ServerError(w, err)
		return
	}

	_, err = buf.WriteTo(w)
	if err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func ServerError(w http.ResponseWriter, err error) {
	slog.Error("template render failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
