// Package server sets up the HTTP server with all routes.
package server

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/leadgate/leadgate/internal/billing"
	"github.com/leadgate/leadgate/internal/client"
	"github.com/leadgate/leadgate/internal/config"
	"github.com/leadgate/leadgate/internal/idgen"
	"github.com/leadgate/leadgate/internal/intake"
	"github.com/leadgate/leadgate/internal/lead"
	"github.com/leadgate/leadgate/internal/logging"
	"github.com/leadgate/leadgate/internal/mail"
	"github.com/leadgate/leadgate/internal/metrics"
	"github.com/leadgate/leadgate/internal/ratelimit"
	"github.com/leadgate/leadgate/internal/realtime"
	"github.com/leadgate/leadgate/internal/security"
	"github.com/leadgate/leadgate/internal/validation"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	cfg *config.Config

	clientSvc  *client.Service
	billingSvc *billing.Service
	intakeSvc  *intake.Service
	leadSvc    *lead.Service
	sender     mail.Sender

	reconcileTimer *billing.Timer
	realtimeHub    *realtime.Hub
	rateLimiter    *ratelimit.Limiter

	db           *sql.DB // nil in demo mode
	router       *gin.Engine
	httpSrv      *http.Server
	logger       *slog.Logger
	cancelRunCtx context.CancelFunc // cancels background goroutines started in Run

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSender sets a custom mail sender (for testing).
func WithSender(sender mail.Sender) Option {
	return func(s *Server) {
		s.sender = sender
	}
}

// New creates a new server instance. Storage is PostgreSQL when
// DATABASE_URL is set, otherwise in-memory demo mode.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, "json"),
	}

	// Apply options first (may set sender/logger)
	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()

	var (
		clientStore client.Store
		intakeStore intake.Store
		leadStore   lead.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		s.db = db
		s.logger.Info("using PostgreSQL storage", "url", maskDSN(cfg.DatabaseURL))

		clientPG := client.NewPostgresStore(db)
		if err := clientPG.Migrate(ctx); err != nil {
			s.logger.Warn("failed to migrate client store", "error", err)
		}
		clientStore = clientPG

		intakePG := intake.NewPostgresStore(db)
		if err := intakePG.Migrate(ctx); err != nil {
			s.logger.Warn("failed to migrate intake store", "error", err)
		}
		intakeStore = intakePG

		leadPG := lead.NewPostgresStore(db)
		if err := leadPG.Migrate(ctx); err != nil {
			s.logger.Warn("failed to migrate lead store", "error", err)
		}
		leadStore = leadPG
	} else {
		s.logger.Info("using in-memory storage (data will not persist)")
		clientStore = client.NewMemoryStore()
		intakeStore = intake.NewMemoryStore()
		leadStore = lead.NewMemoryStore()
	}

	// Mail sender: degrades to skipped sends when not configured
	if s.sender == nil {
		s.sender = mail.NewSender(mail.SMTPConfig{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			Username:      cfg.SMTPUsername,
			Password:      cfg.SMTPPassword,
			From:          cfg.MailFrom,
			TLSSkipVerify: cfg.SMTPTLSSkipVerify,
		}, s.logger)
	}

	s.realtimeHub = realtime.NewHub(s.logger)
	events := &hubEvents{hub: s.realtimeHub}

	s.clientSvc = client.NewService(clientStore, cfg.PlanDays)
	s.billingSvc = billing.NewService(clientStore, s.sender, billing.Config{
		PlanDays:            cfg.PlanDays,
		ReminderWindowDays:  cfg.ReminderWindowDays,
		OperatorEmail:       cfg.OperatorEmail,
		PaymentInstructions: cfg.PaymentInstructions,
	}, s.logger).WithEvents(events)
	s.intakeSvc = intake.NewService(intakeStore, s.clientSvc, s.logger).WithEvents(events)
	s.leadSvc = lead.NewService(leadStore, s.clientSvc, s.sender, cfg.OperatorEmail, s.logger).WithEvents(events)

	s.reconcileTimer = billing.NewTimer(s.billingSvc, cfg.ReconcileInterval, s.logger)

	// Set up router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}))

	// Security headers
	s.router.Use(security.HeadersMiddleware())

	// CORS: the public forms are embedded on client sites
	s.router.Use(security.CORSMiddleware([]string{"*"}))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Rate limiting
	s.rateLimiter = ratelimit.New(ratelimit.DefaultConfig())
	s.router.Use(s.rateLimiter.Middleware())

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Honor an existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = idgen.Hex(8)
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
		}
		if status >= 500 {
			attrs = append(attrs, "client_ip", c.ClientIP())
		}
		logging.L(c.Request.Context()).Log(c.Request.Context(),
			logging.LevelForStatus(status), "request completed", attrs...)
	}
}

// adminAuthMiddleware guards the admin surface with a shared secret.
// In development with no secret configured, access is open.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminSecret == "" {
			if s.cfg.IsDevelopment() {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "admin_disabled",
				"message": "Admin API is not configured",
			})
			return
		}

		secret := c.GetHeader("X-Admin-Secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.AdminSecret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid admin secret",
			})
			return
		}
		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Routes
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Health and observability
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	v1 := s.router.Group("/v1")

	// Public surface: lead capture and intake applications, with a
	// tighter rate limit than the rest of the API
	public := v1.Group("")
	public.Use(ratelimit.MiddlewareWithConfig(ratelimit.PublicFormConfig()))
	lead.NewHandler(s.leadSvc).RegisterPublicRoutes(public)
	intake.NewHandler(s.intakeSvc).RegisterPublicRoutes(public)

	// Admin surface
	admin := v1.Group("/admin")
	admin.Use(s.adminAuthMiddleware())
	client.NewHandler(s.clientSvc).RegisterAdminRoutes(admin)
	billing.NewHandler(s.billingSvc).RegisterAdminRoutes(admin)
	intake.NewHandler(s.intakeSvc).RegisterAdminRoutes(admin)
	lead.NewHandler(s.leadSvc).RegisterAdminRoutes(admin)
	admin.GET("/dashboard", s.dashboardHandler)

	// Realtime admin event feed
	admin.GET("/ws", func(c *gin.Context) {
		s.realtimeHub.HandleWebSocket(c.Writer, c.Request)
	})
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Run starts the HTTP server and background workers, then blocks until a
// shutdown signal or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelRunCtx = cancel

	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
			"mail_configured", s.cfg.MailConfigured(),
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Start realtime hub
	go s.realtimeHub.Run(runCtx)

	// Start the background reconciliation timer
	go s.reconcileTimer.Start(runCtx)

	// DB pool stats for Prometheus
	if s.db != nil {
		go metrics.StartDBStatsCollector(runCtx, s.db, 15*time.Second)
	}

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	// Cancel the context for all background goroutines (hub, collectors)
	if s.cancelRunCtx != nil {
		s.cancelRunCtx()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}

	s.reconcileTimer.Stop()
	s.logger.Info("reconcile timer stopped")

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
