// Package gateway implements the HTTP gateway module. It exposes the chat
// endpoint, conversation dumps, persona listing and experience append,
// health, and Prometheus metrics. It is a leaf module: nothing imports it.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fbianco/proghelper/internal/chat"
	"github.com/fbianco/proghelper/internal/core"
	"github.com/fbianco/proghelper/internal/persona"
	"github.com/fbianco/proghelper/internal/provider"
)

func init() {
	core.RegisterModule(&Gateway{})
}

// Interface guards.
var (
	_ core.Configurable = (*Gateway)(nil)
	_ core.Provisioner  = (*Gateway)(nil)
	_ core.Validator    = (*Gateway)(nil)
	_ core.Starter      = (*Gateway)(nil)
	_ core.Stopper      = (*Gateway)(nil)
)

// knownProviders are the service names probed at Start. The provider set
// is closed; an unlisted name in a request is a validation error.
var knownProviders = []string{"ollama", "mistral", "openai", "openrouter"}

// Gateway is the HTTP gateway module.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	metrics   *Metrics
	startedAt time.Time

	// Resolved lazily at Start() via the service registry.
	providers *provider.Registry
	personas  persona.Store
	chatSvc   *chat.Service
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "gateway.http",
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.appCtx = ctx
	g.logger = ctx.Logger
	g.metrics = NewMetrics()

	ctx.RegisterService("gateway.metrics", g.metrics)
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	return nil
}

// Start implements core.Starter. It resolves dependencies from the service
// registry (lazy binding, since provider modules provision in ID order
// after the gateway) and starts the HTTP server.
func (g *Gateway) Start() error {
	g.providers = provider.NewRegistry()
	for _, name := range knownProviders {
		svc, ok := g.appCtx.Service("provider." + name)
		if !ok {
			continue
		}
		if p, ok := svc.(provider.Provider); ok {
			g.providers.Register(p)
		}
	}

	if svc, ok := g.appCtx.Service("persona.store"); ok {
		if store, ok := svc.(persona.Store); ok {
			g.personas = store
		}
	}

	g.chatSvc = chat.NewService(chat.NewStore(), g.personas, g.providers, g.logger)
	g.startedAt = time.Now()

	mux := g.buildRouter()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      mux,
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind, "providers", g.providers.Names())
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
