package routes

import (
	"net/http"

	"github.com/tasklight/tasklight/internal/app"
	"github.com/tasklight/tasklight/internal/handler"
	"github.com/tasklight/tasklight/internal/middleware"
	"github.com/tasklight/tasklight/internal/storage"
)

// New builds the full route table and wraps it in the middleware stack.
func New(a *app.App) http.Handler {
	mux := http.NewServeMux()

	home := handler.NewHomeHandler(a.ContentService)
	auth := handler.NewAuthHandler(a.AuthService)
	tasks := handler.NewTaskHandler(a.TaskService)
	profile := handler.NewProfileHandler(a.UserService, a.AuthService)
	recovery := handler.NewRecoveryHandler(a.RecoveryService)

	limited := middleware.RateLimitAuth()

	// Public pages
	mux.HandleFunc("GET /", home.Index)
	mux.HandleFunc("GET /pages/{slug}", home.Page)
	mux.HandleFunc("GET /contact", middleware.RequireAuth(home.ContactForm))
	mux.HandleFunc("POST /contact", middleware.RequireAuth(home.Contact))

	// Auth
	mux.HandleFunc("GET /register", middleware.RequireGuest(auth.RegisterForm))
	mux.HandleFunc("POST /register", limited(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("GET /login", middleware.RequireGuest(auth.LoginForm))
	mux.HandleFunc("POST /login", limited(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /logout", auth.Logout)
	mux.HandleFunc("POST /logout", auth.Logout)

	// Password recovery. Deliberately reachable while logged in, same as
	// the login-less flow it mirrors.
	mux.HandleFunc("GET /forgot_password", recovery.ForgotForm)
	mux.HandleFunc("POST /forgot_password", limited(recovery.Forgot))
	mux.HandleFunc("GET /reset_security/{user_id}", recovery.QuestionForm)
	mux.HandleFunc("POST /reset_security/{user_id}", limited(recovery.VerifyAnswer))
	mux.HandleFunc("GET /reset_password_new/{user_id}", recovery.NewPasswordForm)
	mux.HandleFunc("POST /reset_password_new/{user_id}", limited(recovery.ResetPassword))

	// Tasks
	mux.HandleFunc("GET /tasks", middleware.RequireAuth(tasks.List))
	mux.HandleFunc("POST /tasks", middleware.RequireAuth(tasks.Create))
	mux.HandleFunc("GET /complete/{task_id}", middleware.RequireAuth(tasks.Complete))
	mux.HandleFunc("GET /delete/{task_id}", middleware.RequireAuth(tasks.Delete))

	// Profile
	mux.HandleFunc("GET /profile", middleware.RequireAuth(profile.Show))
	mux.HandleFunc("GET /update_profile", middleware.RequireAuth(profile.EditForm))
	mux.HandleFunc("POST /update_profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("POST /delete_account", middleware.RequireAuth(profile.DeleteAccount))

	// Static assets and locally stored uploads
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	if local, ok := a.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	return middleware.Chain(mux,
		middleware.Config(a.Config),
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.BodyLimit(a.Config.MaxUploadBytes),
		middleware.WithURLPath,
		middleware.CSRFProtection,
		middleware.Auth(a.AuthService, a.UserService),
	)
}
