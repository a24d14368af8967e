package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/api"
	"github.com/suryard0605/medtrack/internal/auth"
	"github.com/suryard0605/medtrack/internal/config"
	"github.com/suryard0605/medtrack/internal/notify"
	"github.com/suryard0605/medtrack/internal/reminder"
	"github.com/suryard0605/medtrack/internal/storage"
)

// app wires the composed dependencies behind the handler-facing interface.
type app struct {
	logger    internal.Logger
	repos     *storage.Repositories
	notifier  notify.Notifier
	reminders *reminder.Manager
}

func (a *app) Logger() internal.Logger               { return a.logger }
func (a *app) Users() storage.UserRepository         { return a.repos.Users }
func (a *app) Members() storage.MemberRepository     { return a.repos.Members }
func (a *app) Medicines() storage.MedicineRepository { return a.repos.Medicines }
func (a *app) DoseLogs() storage.DoseLogRepository   { return a.repos.DoseLogs }
func (a *app) Notifier() notify.Notifier             { return a.notifier }
func (a *app) Reminders() *reminder.Manager          { return a.reminders }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	repos, err := newRepositories(cfg, logger)
	if err != nil {
		logger.Errorf("failed to init storage: %v", err)
		os.Exit(1)
	}

	var dismissals reminder.DismissalStore
	if cfg.RedisAddr != "" {
		dismissals = reminder.NewRedisDismissalStore(cfg.RedisAddr)
		logger.Infof("dismissed-notification set backed by redis at %s", cfg.RedisAddr)
	} else {
		dismissals = reminder.NewMemoryDismissalStore()
	}

	notifier := newNotifier(cfg, logger)
	manager := reminder.NewManager(dismissals, reminder.NewStoreLogChecker(repos.DoseLogs), logger)

	a := &app{logger: logger, repos: repos, notifier: notifier, reminders: manager}

	var provider auth.Provider
	if cfg.Env == "development" {
		provider = auth.NewLocalAuthProvider(cfg.LocalToken, repos.Users, logger)
	} else {
		provider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestIDMiddleware())
	r.Use(api.AccessLogMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/api", auth.AuthMiddleware(provider, cfg))
	{
		authed.POST("/users", api.PostUser(a))
		authed.GET("/users/me", api.GetMe(a))
		authed.PUT("/users/me", api.PutMe(a))

		authed.POST("/members", api.PostMember(a))
		authed.GET("/members", api.ListMembers(a))
		authed.GET("/members/:id", api.GetMember(a))
		authed.PUT("/members/:id", api.PutMember(a))
		authed.DELETE("/members/:id", api.DeleteMember(a))

		authed.POST("/medicines", api.PostMedicine(a))
		authed.GET("/medicines", api.ListMedicines(a))
		authed.GET("/medicines/due", api.GetDueMedicines(a))
		authed.PUT("/medicines/:id", api.PutMedicine(a))
		authed.POST("/medicines/:id/refill", api.PostRefill(a))
		authed.DELETE("/medicines/:id", api.DeleteMedicine(a))

		authed.POST("/dose-logs", api.PostDoseLog(a))
		authed.GET("/dose-logs", api.ListDoseLogs(a))

		authed.GET("/analytics", api.GetAnalytics(a))
		authed.GET("/analytics/trends/:subjectId", api.GetTrends(a))

		authed.GET("/notifications", api.GetNotifications(a))
		authed.POST("/notifications/:id/action", api.PostNotificationAction(a))
		authed.POST("/notifications/dismiss-all", api.PostDismissAll(a))
	}

	var poller *reminder.Poller
	if cfg.RemindersEnabled {
		poller = reminder.NewPoller(repos.Medicines, repos.Members, repos.Users, notifier, logger)
		if err := poller.Start(); err != nil {
			logger.Errorf("failed to start reminder poller: %v", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Infof("server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if poller != nil {
		poller.Stop()
	}
	if err := repos.Close(); err != nil {
		logger.Errorf("storage close: %v", err)
	}
}

func newRepositories(cfg *config.Config, logger internal.Logger) (*storage.Repositories, error) {
	switch cfg.DBType {
	case "postgres":
		return storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.FileUsers), 0o755); err != nil {
			return nil, err
		}
		return storage.NewFileRepositories(cfg.FileUsers, cfg.FileMembers, cfg.FileMedicines, cfg.FileDoseLogs, logger)
	}
}

func newNotifier(cfg *config.Config, logger internal.Logger) notify.Notifier {
	if cfg.SendGridAPIKey == "" {
		logger.Info("no SENDGRID_API_KEY set, outbound notifications disabled")
		return notify.NoopNotifier{}
	}
	var sms notify.Notifier = notify.NoopNotifier{}
	if cfg.TwilioSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioPhone != "" {
		sms = notify.NewTwilioNotifier(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioPhone, cfg.SMSPhonePrefix, logger)
	}
	return notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.EmailFrom, sms, logger)
}
