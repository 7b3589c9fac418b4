package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sxpeea/sxpeea/pkg/content"
	"github.com/sxpeea/sxpeea/pkg/storage"
)

// RouteRegistrar mounts additional routes, such as the chat relay, on the
// server's root router.
type RouteRegistrar interface {
	Register(router fiber.Router)
}

// Server is the public HTTP server.
type Server struct {
	config Config
	driver storage.Driver
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. Each registrar is mounted at the root
// after the built-in routes.
func NewServer(config Config, driver storage.Driver, logger *slog.Logger, registrars ...RouteRegistrar) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Error("request failed", "path", c.Path(), "error", err)
			}
			return c.Status(code).JSON(content.ErrorResponse{Error: http.StatusText(code)})
		},
	})

	s := &Server{
		config: config,
		driver: driver,
		logger: logger,
		app:    app,
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowCredentials: false,
		ExposeHeaders:    "*",
	}))

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)

	if config.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads", http.FileServer(http.Dir(config.UploadDir)))
		app.Use("/uploads", adaptor.HTTPHandler(fileServer))
	}

	// Event streams must not pass through compress, which buffers.
	public := app.Group("/api", compress.New())
	public.Get("/menus/tree", s.handleMenuTree)
	public.Get("/pages/:slug", s.handlePage)
	public.Get("/categories/:slug", s.handleCategoryArticles)
	public.Get("/articles/latest", s.handleLatestArticles)
	public.Get("/articles/:id", s.handleArticle)
	public.Get("/banners", s.handleBanners)
	public.Get("/settings", s.handleSettings)

	for _, r := range registrars {
		r.Register(app)
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting API server",
		"listen", listener.Addr().String(),
	)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
