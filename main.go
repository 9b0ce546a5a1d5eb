package main

import (
	"blog-content-service/internal/association"
	"blog-content-service/internal/auth"
	"blog-content-service/internal/config"
	"blog-content-service/internal/constants"
	"blog-content-service/internal/database"
	"blog-content-service/internal/environment"
	"blog-content-service/internal/logging"
	"blog-content-service/internal/middlewares"
	"blog-content-service/internal/routes"
	"blog-content-service/internal/rpc"
	"context"
	"errors"
	"github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"gorm.io/gorm"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	c := config.InitConfig()

	logger := logging.InitLogging(c)
	defer logger.RecoverPanic("main")

	if len(c.Auth.SigningKey) > 0 {
		middlewares.SigningKey = c.Auth.SigningKey
	} else {
		logger.LogWarn(logging.GetLogTypeInitialization(), "no signing key configured, using the built-in key")
	}
	middlewares.TokenLifetime = c.Auth.TokenLifetime.Duration

	db, controllerRegistry, err := injectDependencies(c, logger)
	if err != nil {
		logger.LogErrorf(logging.GetLogTypeInitialization(), "injecting depencies failed: %s", err.Error())
		return
	}

	ginLogger := logging.InitGinLogger(c)

	gin.DefaultWriter = io.MultiWriter(&zapio.Writer{Log: ginLogger, Level: config.Config().Logging.Level})
	if config.Config().Logging.Level == zap.DebugLevel {
		logger.LogDebug(nil, "Enabling Gin debug (writes to access log)")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		ginzap.GinzapWithConfig(ginLogger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        false,
			SkipPaths:  []string{"/status", "/heartbeat", "/metrics"},
		}),
		ginzap.RecoveryWithZap(ginLogger, true),
	)

	// Routes
	routes.InitRouter(r, controllerRegistry)

	// h2c lets grpc clients use HTTP/2 without TLS
	server := &http.Server{
		Addr:              net.JoinHostPort(config.Address(), config.Port()),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.LogInfof(nil, "API running. Listening on %s", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.LogErrorf(nil, "Listening on %s failed: %s", server.Addr, err.Error())
		}
	case <-ctx.Done():
		logger.LogWarnf(nil, "Cleaning up...")
	}

	shutdown(server, db, c.ShutdownTimeout.Duration, logger)
}

func injectDependencies(config *config.Configuration, logger logging.Logger) (*gorm.DB, map[int]any, error) {
	db, err := database.InitDatabase(config, logger)
	if err != nil {
		logger.LogError(logging.GetLogTypeInitialization(), "error initializing database: ", err)
		return nil, nil, err
	}

	env := environment.Environment(
		&database.GormRepository{DB: db},
		logger,
	)

	authController := &auth.Controller{
		Env: env,
		AuthService: &auth.AuthService{
			Env:               env,
			AdminUsername:     config.Auth.AdminUsername,
			AdminPasswordHash: config.Auth.AdminPasswordHash,
		},
	}

	controllerRegistry := make(map[int]any)
	controllerRegistry[constants.Auth] = authController
	controllerRegistry[constants.Association] = &association.Controller{Env: env}
	controllerRegistry[constants.BlogService] = &rpc.Service{Env: env}

	return db, controllerRegistry, nil
}

// shutdown drains in-flight requests for at most timeout and closes the connection pool.
func shutdown(server *http.Server, db *gorm.DB, timeout time.Duration, logger logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogErrorf(nil, "graceful shutdown failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.LogErrorf(nil, "error getting connection pool: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.LogErrorf(nil, "error closing connection pool: %v", err)
	}

	logger.LogInfo(nil, "shut down")
}
