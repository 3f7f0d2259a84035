package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tasklight/tasklight/internal/config"
	"github.com/tasklight/tasklight/internal/db"
	"github.com/tasklight/tasklight/internal/repository"
	"github.com/tasklight/tasklight/internal/service"
	"github.com/tasklight/tasklight/internal/storage"
)

// App holds every long-lived dependency, wired once at startup.
type App struct {
	Config  *config.Config
	DB      *sqlx.DB
	Storage storage.Storage

	AuthService     *service.AuthService
	UserService     *service.UserService
	TaskService     *service.TaskService
	RecoveryService *service.RecoveryService
	ContentService  *service.ContentService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	authService := service.NewAuthService(userRepo, cfg.SecretKey, cfg.IsProduction(), cfg.SessionExpiry)
	userService := service.NewUserService(userRepo, store)
	taskService := service.NewTaskService(taskRepo)
	recoveryService := service.NewRecoveryService(userRepo, authService)
	contentService := service.NewContentService(cfg.ContentPath)

	if err := contentService.LoadPages(); err != nil {
		return nil, fmt.Errorf("failed to load content pages: %w", err)
	}

	return &App{
		Config:          cfg,
		DB:              database,
		Storage:         store,
		AuthService:     authService,
		UserService:     userService,
		TaskService:     taskService,
		RecoveryService: recoveryService,
		ContentService:  contentService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
