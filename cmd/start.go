package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"scorehub/core/cache"
	"scorehub/core/config"
	"scorehub/core/database"
	"scorehub/core/loader"
	"scorehub/core/logger"
	"scorehub/core/middleware/auth"
	"scorehub/core/middleware/rayid"
	"scorehub/core/storage"

	"scorehub/feature/assignment"
	"scorehub/feature/dashboard"
	"scorehub/feature/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "scorehub/docs/swagger"
)

// @title ScoreHub API
// @version 1.0
// @description API for managing judge assignments across events, contests and categories.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the assignment server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		logg = logg.With(zap.String("tenant", cfg.Server.Tenant))

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Initialize Storage (Optional)
		// Export archiving is the only consumer; the server runs without it.
		var store storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, export archiving disabled", zap.Error(err))
		} else {
			store = client
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Shared cache for reconciled views and dashboard counters
		sharedCache := cache.New()

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(assignment.NewFeature(db, sharedCache, logg, cfg.Server.Tenant))
		mgr.Register(user.NewFeature(db, store, cfg.Storage.Bucket, logg, cfg.Server.Tenant))
		mgr.Register(dashboard.NewFeature(db, sharedCache, logg, cfg.Server.Tenant))

		// Middleware Registration
		// RayID first so every later log line can carry it
		app.Use(rayid.New())

		// Request logging on top of Zap + RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.ListenAddr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
