package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/tasktrack/tasktrack-api/internal/auth"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	"github.com/tasktrack/tasktrack-api/internal/database"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/repository"
	"github.com/tasktrack/tasktrack-api/internal/router"
	"github.com/tasktrack/tasktrack-api/internal/services"
	"gorm.io/gorm"
)

var (
	app = kingpin.New("tasktrack", "Multi-user task tracker API")

	serveCmd = app.Command("serve", "Start the HTTP server").Default()

	createUserCmd      = app.Command("create-user", "Create a user account")
	createUserName     = createUserCmd.Flag("name", "Display name").Required().String()
	createUserEmail    = createUserCmd.Flag("email", "Login email").Required().String()
	createUserPassword = createUserCmd.Flag("password", "Login password").Required().String()
	createUserAdmin    = createUserCmd.Flag("admin", "Grant the admin role").Bool()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	switch command {
	case createUserCmd.FullCommand():
		err = createUser(db, cfg)
	case serveCmd.FullCommand():
		err = serve(db, cfg)
	}
	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func createUser(db *gorm.DB, cfg *config.Config) error {
	role := models.RoleUser
	if *createUserAdmin {
		role = models.RoleAdmin
	}

	authService := services.NewAuthService(repository.NewUserRepository(db), cfg.AllowAdminSignup)
	user, err := authService.CreateUser(context.Background(), services.RegisterInput{
		Name:     *createUserName,
		Email:    *createUserEmail,
		Password: *createUserPassword,
		Role:     role,
	})
	if err != nil {
		return err
	}

	slog.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return nil
}

func serve(db *gorm.DB, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	engine := router.New(router.Deps{
		TaskService:  services.NewTaskService(taskRepo, userRepo, lifecycle.NewRules(nil)),
		AuthService:  services.NewAuthService(userRepo, cfg.AllowAdminSignup),
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		SessionStore: store,
		Development:  !cfg.IsProduction(),
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(engine)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           gorillahandlers.CombinedLoggingHandler(os.Stdout, handler),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "mode", cfg.GinMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// newSessionStore uses Redis when configured and signed cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisAddr != "" {
		rs, err := redisStore.NewStore(10, "tcp", cfg.RedisAddr, "", []byte(cfg.SessionSecret))
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
