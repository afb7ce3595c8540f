// Package container wires the Anatomy-View services using go.uber.org/dig.
package container

import (
	"log/slog"

	"go.uber.org/dig"

	"github.com/decaylee13/Anatomy-View/internal/catalog"
	"github.com/decaylee13/Anatomy-View/internal/config"
	"github.com/decaylee13/Anatomy-View/internal/dedalus"
	"github.com/decaylee13/Anatomy-View/internal/gemini"
	"github.com/decaylee13/Anatomy-View/internal/pipeline"
	"github.com/decaylee13/Anatomy-View/internal/server"
)

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	primary *gemini.Client
	study   *dedalus.Service
	orch    *pipeline.Orchestrator
	srv     *server.Server
}

func (c *Container) Primary() *gemini.Client              { return c.primary }
func (c *Container) Study() *dedalus.Service              { return c.study }
func (c *Container) Orchestrator() *pipeline.Orchestrator { return c.orch }
func (c *Container) Server() *server.Server               { return c.srv }

// New builds and wires all services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newGeminiClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newStudyService); err != nil {
		return nil, err
	}
	if err := d.Provide(newOrchestrator); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		primary *gemini.Client,
		study *dedalus.Service,
		orch *pipeline.Orchestrator,
		srv *server.Server,
	) {
		result = &Container{
			primary: primary,
			study:   study,
			orch:    orch,
			srv:     srv,
		}
	})
	return result, err
}

func newGeminiClient(cfg *config.Config) *gemini.Client {
	return gemini.NewClient(gemini.Options{
		APIKey:       cfg.Gemini.APIKey,
		APIBase:      cfg.Gemini.APIBase,
		Model:        cfg.Gemini.Model,
		SystemPrompt: catalog.SystemPrompt(),
		Tools:        catalog.Tools(),
	})
}

func newStudyService(cfg *config.Config) *dedalus.Service {
	enabled := cfg.Dedalus.Enabled && cfg.Dedalus.APIKey != ""
	if cfg.Dedalus.Enabled && !enabled {
		slog.Warn("dedalus requested but DEDALUS_API_KEY is not set; study branch disabled")
	}

	apiKey := cfg.Dedalus.APIKey
	apiBase := cfg.Dedalus.APIBase
	return dedalus.NewService(enabled, cfg.Dedalus.Model, func() (dedalus.Runner, error) {
		return dedalus.NewHTTPRunner(apiKey, apiBase)
	})
}

func newOrchestrator(primary *gemini.Client, study *dedalus.Service) *pipeline.Orchestrator {
	return pipeline.New(primary, study)
}

func newServer(orch *pipeline.Orchestrator) *server.Server {
	return server.New(orch)
}
