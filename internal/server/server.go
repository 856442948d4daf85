package server

import (
	"context"
	"fmt"
	"kaudio/config"
	"kaudio/internal/app"
	"kaudio/internal/handlers"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

// Request bodies are small JSON documents. No route accepts uploads.
const MAX_REQUEST_BODY = 1 << 20

// AppServer serves the kaudio /api routes and the /ws activity feed.
type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server", "environment", app.Config.Environment)

	server := fiber.New(fiberConfig(app.Config))
	server.Use(cors.New(corsConfig(app.Config)))
	server.Use(fiberLogs.New())
	server.Use(compress.New())
	server.Use(helmet.New(securityHeaders()))

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to register kaudio routes", err)
	}

	return &AppServer{FiberApp: server, log: log}, nil
}

func fiberConfig(cfg config.Config) fiber.Config {
	fiberCfg := fiber.Config{
		ServerHeader:             fmt.Sprintf("kaudio/%s", cfg.GeneralVersion),
		AppName:                  "kaudio_server",
		BodyLimit:                MAX_REQUEST_BODY,
		ReadBufferSize:           16384,
		WriteBufferSize:          16384,
		EnableSplittingOnParsers: true,
		EnableTrustedProxyCheck:  true,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             30 * time.Second,
		IdleTimeout:              120 * time.Second,
		DisableStartupMessage:    true,
	}

	if cfg.Environment == "development" {
		fiberCfg.DisableStartupMessage = false
		fiberCfg.EnablePrintRoutes = true
	}

	return fiberCfg
}

// corsConfig exposes X-Trace-ID so clients can quote it in bug reports and
// lets the websocket upgrade headers through. Credentials are only allowed
// for an explicit origin list since browsers reject them with a wildcard.
func corsConfig(cfg config.Config) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.CorsAllowOrigins,
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Trace-ID, Upgrade, Connection",
		AllowCredentials: cfg.CorsAllowOrigins != "*",
		ExposeHeaders:    "Upgrade, X-Trace-ID",
		MaxAge:           300,
	}
}

// securityHeaders leaves the content security policy empty. The API only
// serves JSON and the feed, never HTML.
func securityHeaders() helmet.Config {
	return helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port <= 0 {
		return log.Error("refusing to listen on invalid port", "port", port)
	}

	log.Info("kaudio API listening", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires. Open websocket feeds are closed by the app, not here.
func (s *AppServer) Shutdown(ctx context.Context) error {
	if err := s.FiberApp.ShutdownWithContext(ctx); err != nil {
		return s.log.Function("Shutdown").Err("server did not drain in time", err)
	}
	return nil
}
