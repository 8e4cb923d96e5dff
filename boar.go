// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The boar-server Authors

// Package boar is a web application bootstrap. It assembles a chi router
// with the common middleware stack (request-id tagging, access logging,
// panic recovery, CORS, security headers, SSL enforcement, method
// override, body limiting, gzip), mounts registered controllers and
// models, and manages the HTTP and HTTPS listener lifecycle: listeners
// are tracked as they start, and Close shuts all of them down
// concurrently.
//
// Typical usage:
//
//	cfg, err := config.Load(os.Args[1:])
//	...
//	app := boar.New(cfg, logger.New("myapp"))
//	app.UseCORS(middleware.CORSConfig{})
//	app.UseSecurityHeaders(middleware.SecurityHeadersConfig{})
//	app.UseStatic("/static")
//	err = app.MountControllers(newUsersController())
//	...
//	err = app.Run(context.Background())
package boar

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/ejgyurisan/boar-server/config"
	"github.com/ejgyurisan/boar-server/controller"
	"github.com/ejgyurisan/boar-server/logger"
	"github.com/ejgyurisan/boar-server/middleware"
	"github.com/ejgyurisan/boar-server/model"
	"github.com/ejgyurisan/boar-server/render"
	"github.com/ejgyurisan/boar-server/server"
	"github.com/ejgyurisan/boar-server/token"
)

// App is the application bootstrap. Configure it with the Use* and
// Mount*/Attach* methods, then start it with Listen or Run. The router is
// assembled on first use, so all registration must happen before the
// first Listen, Run, or Handler call.
type App struct {
	cfg   *config.Config
	log   *logger.Logger
	group *server.Group

	controllers *controller.Registry
	models      *model.Registry
	health      *controller.Health

	store  *model.Store
	views  *render.Renderer
	tokens *token.Service

	useCORS            bool
	corsCfg            middleware.CORSConfig
	useSecurityHeaders bool
	shCfg              middleware.SecurityHeadersConfig
	useMethodOverride  bool
	useGzip            bool
	useBodyLimit       bool
	staticPrefix       string

	handler http.Handler
}

// New constructs an App from a loaded configuration. The baseline
// middleware (panic recovery, request-id tagging, access logging) is
// always installed.
func New(cfg *config.Config, log *logger.Logger) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		group:       server.NewGroup(log, cfg.Server.RequestTimeout),
		controllers: controller.NewRegistry(),
		models:      model.NewRegistry(),
		health:      controller.NewHealth(cfg.Server.RequestTimeout),
	}
}

// UseCORS enables cross-origin resource sharing with the given options.
func (a *App) UseCORS(cfg middleware.CORSConfig) {
	a.useCORS = true
	a.corsCfg = cfg
}

// UseSecurityHeaders enables the security response headers.
func (a *App) UseSecurityHeaders(cfg middleware.SecurityHeadersConfig) {
	a.useSecurityHeaders = true
	a.shCfg = cfg
}

// UseMethodOverride honours the X-HTTP-Method-Override header on POST
// requests.
func (a *App) UseMethodOverride() {
	a.useMethodOverride = true
}

// UseGzip enables transparent request/response gzip.
func (a *App) UseGzip() {
	a.useGzip = true
}

// UseBodyLimit caps request body sizes at the configured
// Server.BodyLimit.
func (a *App) UseBodyLimit() {
	a.useBodyLimit = true
}

// UseStatic serves the configured static assets directory under prefix
// (e.g. "/static").
func (a *App) UseStatic(prefix string) {
	a.staticPrefix = prefix
}

// UseViews loads the view templates from the configured views directory.
// The renderer is available to controllers via Views.
func (a *App) UseViews() error {
	views, err := render.Load(a.cfg.Assets.ViewsDir, a.cfg.Assets.ViewsExt, a.log)
	if err != nil {
		return err
	}

	a.views = views
	return nil
}

// UseAuth initialises the bearer-token service from the Auth
// configuration. Controllers protect route groups with AuthMiddleware and
// issue tokens through Tokens.
func (a *App) UseAuth() error {
	tokens, err := token.NewService(
		a.cfg.Auth.TokenSignKey,
		a.cfg.Auth.TokenIssuer,
		a.cfg.Auth.TokenDuration,
	)
	if err != nil {
		return err
	}

	a.tokens = tokens
	return nil
}

// Tokens returns the token service, or nil before UseAuth.
func (a *App) Tokens() *token.Service {
	return a.tokens
}

// AuthMiddleware returns the bearer-auth middleware backed by the app's
// token service. Panics if UseAuth has not been called.
func (a *App) AuthMiddleware() func(http.Handler) http.Handler {
	if a.tokens == nil {
		panic("boar: AuthMiddleware called before UseAuth")
	}
	return middleware.Auth(a.tokens)
}

// Views returns the view renderer, or nil before UseViews.
func (a *App) Views() *render.Renderer {
	return a.views
}

// Store returns the shared model store, or nil before AttachModels.
func (a *App) Store() *model.Store {
	return a.store
}

// Logger returns the app's root logger.
func (a *App) Logger() *logger.Logger {
	return a.log
}

// MountControllers registers controllers to be mounted on the router.
func (a *App) MountControllers(controllers ...controller.Controller) error {
	return a.controllers.Register(controllers...)
}

// AttachModels opens the shared store on first use, registers the models,
// and applies their schemas. The store is also registered as a readiness
// check on the built-in health endpoint.
func (a *App) AttachModels(ctx context.Context, models ...model.Model) error {
	if a.store == nil {
		store, err := model.Open(ctx, a.cfg.Storage.DSN, a.log)
		if err != nil {
			return err
		}
		a.store = store
		a.health.AddChecks(store)
	}

	if err := a.models.Register(models...); err != nil {
		return err
	}

	return a.store.EnsureSchemas(ctx, a.models)
}

// Migrate runs the goose migrations in dir of fsys against the shared
// store. AttachModels must have been called first.
func (a *App) Migrate(fsys fs.FS, dir string) error {
	if a.store == nil {
		return errors.New("boar: Migrate called before AttachModels")
	}
	return a.store.Migrate(fsys, dir)
}

// Handler assembles the router on first call and returns it. Middleware
// order is fixed: recovery, request id, logging, CORS, security headers,
// SSL enforcement, method override, body limit, gzip, then routes.
func (a *App) Handler() http.Handler {
	if a.handler != nil {
		return a.handler
	}

	mux := chi.NewRouter()

	mux.Use(middleware.Recovery(a.log))
	mux.Use(middleware.RequestID(a.log))
	mux.Use(middleware.Logging)

	if a.useCORS {
		mux.Use(middleware.CORS(a.corsCfg))
	}
	if a.useSecurityHeaders {
		mux.Use(middleware.SecurityHeaders(a.shCfg))
	}
	if a.cfg.HTTPS.Enabled {
		mux.Use(middleware.EnforceSSL(middleware.EnforceSSLConfig{
			HTTPSPort:   a.cfg.Server.HTTPSPort(),
			ExemptPaths: []string{controller.HealthPrefix},
		}))
	}
	if a.useMethodOverride {
		mux.Use(middleware.MethodOverride)
	}
	if a.useBodyLimit {
		mux.Use(middleware.BodyLimit(a.cfg.Server.BodyLimit))
	}
	if a.useGzip {
		mux.Use(middleware.Gzip)
	}

	if a.staticPrefix != "" {
		fileServer := http.StripPrefix(a.staticPrefix, http.FileServer(http.Dir(a.cfg.Assets.StaticDir)))
		mux.Handle(a.staticPrefix+"/*", fileServer)
	}

	mux.Route(a.health.Prefix(), a.health.Routes)
	a.controllers.MountAll(mux)

	a.log.Info().
		Strs("controllers", a.controllers.Prefixes()).
		Int("models", a.models.Len()).
		Msg("application assembled")

	a.handler = mux
	return a.handler
}

// Listen starts the plaintext listener on the configured port and, when
// HTTPS is enabled, the TLS listener on port + config.HTTPSPortOffset
// with certificate material from the configured paths (or autocert when
// none are set). Listeners are bound synchronously, so bind and
// certificate errors surface here; on a partial failure the listeners
// already started are closed again before returning.
func (a *App) Listen(ctx context.Context) error {
	handler := a.Handler()

	if _, err := a.group.ListenHTTP(fmt.Sprintf(":%d", a.cfg.Server.Port), handler); err != nil {
		return fmt.Errorf("error starting HTTP listener: %w", err)
	}

	if !a.cfg.HTTPS.Enabled {
		return nil
	}

	tlsCfg, err := a.tlsConfig()
	if err == nil {
		_, err = a.group.ListenTLS(fmt.Sprintf(":%d", a.cfg.Server.HTTPSPort()), handler, tlsCfg)
	}
	if err != nil {
		closeErr := a.group.Close(ctx)
		return errors.Join(fmt.Errorf("error starting HTTPS listener: %w", err), closeErr)
	}

	return nil
}

func (a *App) tlsConfig() (*tls.Config, error) {
	if a.cfg.HTTPS.CertFile != "" {
		return server.FileTLSConfig(a.cfg.HTTPS.CertFile, a.cfg.HTTPS.KeyFile)
	}
	return server.AutocertTLSConfig(a.cfg.HTTPS.AutocertHosts, a.cfg.HTTPS.AutocertCacheDir), nil
}

// Addrs returns the bound addresses of all active listeners.
func (a *App) Addrs() []string {
	handles := a.group.Handles()
	addrs := make([]string, 0, len(handles))
	for _, h := range handles {
		addrs = append(addrs, h.Addr())
	}
	return addrs
}

// Close gracefully shuts down every active listener concurrently,
// resolves once all of them have stopped, and closes the model store.
func (a *App) Close(ctx context.Context) error {
	err := a.group.Close(ctx)

	if a.store != nil {
		err = errors.Join(err, a.store.Close())
		a.store = nil
	}

	return err
}

// Run starts the listeners and blocks until ctx is cancelled or a
// SIGTERM/SIGINT/SIGQUIT arrives, then closes everything gracefully
// within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := a.Listen(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received")

	shutdownCtx := context.Background()
	if a.cfg.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
	}

	if err := a.Close(shutdownCtx); err != nil {
		return err
	}

	a.log.Info().Msg("server shut down gracefully")
	return nil
}
