package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/toolsascode/revmig/internal/api/http"
	rpcapi "github.com/toolsascode/revmig/internal/api/rpc"
	"github.com/toolsascode/revmig/internal/bootstrap"
	"github.com/toolsascode/revmig/internal/config"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/state"
	"github.com/toolsascode/revmig/migrations"
	revmigv1 "github.com/toolsascode/revmig/proto/revmig/v1"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireAPIToken(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	logger.Info("Initializing revmig server...")

	rt, err := bootstrap.Open(cfg, migrations.GlobalRegistry)
	if err != nil {
		logger.Fatalf("Failed to initialize: %v", err)
	}
	defer func() { _ = rt.Close() }()
	exec := rt.Executor

	if _, err := exec.Chain(); err != nil {
		logger.Warnf("Revision chain is invalid, migrations will fail until it is fixed: %v", err)
	}

	// Initialize queue if enabled
	if cfg.Queue.Enabled {
		q, err := bootstrap.NewQueue(cfg)
		if err != nil {
			logger.Fatalf("Failed to create queue: %v", err)
		}
		defer func() { _ = q.Close() }()

		exec.SetQueue(q)
		logger.Info("Queue enabled - migrations will be queued for async execution")
	}

	// Watch the revisions directory; only valid chains replace the registry
	if cfg.Revisions.Watch {
		if err := rt.Loader.StartWatching(func(reg registry.Registry) {
			exec.SetRegistry(reg)
		}); err != nil {
			logger.Warnf("Failed to watch %s: %v", cfg.Revisions.Dir, err)
		}
	}

	// Periodic drift verification
	if cfg.Monitor.Interval > 0 {
		monitor := state.NewDriftMonitor(exec, cfg.Monitor.Interval)
		monitor.Start()
		defer monitor.Stop()
	}

	// Initialize HTTP server
	router := gin.New()

	// Custom logger middleware that skips health check endpoints
	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		if param.Path == "/health" || param.Path == "/api/v1/health" {
			return ""
		}
		return fmt.Sprintf("[GIN] %s | %3d | %13v | %15s | %-7s %s\n",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
		)
	}))
	router.Use(gin.Recovery())
	router.Use(cors)

	httpHandler := httpapi.NewHandler(exec)
	httpHandler.SetReloader(rt.Loader)
	httpHandler.RegisterRoutes(router)
	router.GET("/health", httpHandler.Health)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting HTTP server on port %s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Start gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(rpcapi.UnaryAuthInterceptor))
	revmigv1.RegisterRevisionServiceServer(grpcServer, rpcapi.NewServer(exec))

	grpcListener, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		logger.Fatalf("Failed to listen on gRPC port %s: %v", cfg.Server.GRPCPort, err)
	}

	go func() {
		logger.Infof("Starting gRPC server on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Fatalf("Failed to start gRPC server: %v", err)
		}
	}()

	logger.Info("revmig server started successfully")
	logger.Infof("HTTP API available at http://localhost:%s/api/v1", cfg.Server.HTTPPort)
	logger.Infof("gRPC API available at localhost:%s", cfg.Server.GRPCPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warnf("HTTP server forced to shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	logger.Info("Servers exited")
}

// cors allows browser clients from any origin; must run before routes
func cors(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	} else {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	}
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Executed-By")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}
