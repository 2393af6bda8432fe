package main

import (
	"context"
	"net/http"

	"github.com/PabloGalante/farum-oracle/internal/adapters/backend"
	"github.com/PabloGalante/farum-oracle/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/farum-oracle/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/farum-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/config"
	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

// newGateway picks the generation stack. Forecasts and synastry come from
// the oracle backend when configured, else from the mock; chat and
// readings use Gemini unless the mock is forced.
func newGateway(ctx context.Context, cfg *config.Config, registry *persona.Registry) (domain.Gateway, error) {
	log := observability.Logger()

	var astro domain.Gateway
	if cfg.BackendURL != "" {
		log.Info("[GATEWAY] Using oracle backend", "url", cfg.BackendURL)
		astro = backend.NewClient(&http.Client{Timeout: cfg.GatewayTimeout}, cfg.BackendURL)
	} else {
		log.Info("[GATEWAY] Using MOCK astrology gateway")
		astro = llm.NewMockGateway()
	}

	if cfg.UseMockGateway {
		log.Info("[GATEWAY] Using MOCK chat gateway")
		return astro, nil
	}

	models, err := llm.NewVertexModels(ctx, cfg.GCPProjectID, cfg.GCPLocation)
	if err != nil {
		return nil, err
	}
	log.Info("[GATEWAY] Using Gemini chat gateway", "model", cfg.ModelName)
	return llm.NewGeminiGateway(models, cfg.ModelName, registry, astro).WithTimeout(cfg.GatewayTimeout), nil
}

type stores struct {
	profiles domain.ProfileStore
	readings domain.ReadingStore
	close    func()
}

func newStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case "firestore":
		log.Info("[STORE] Using Firestore storage", "project", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}

		// 1 store, implements 2 interfaces
		return &stores{
			profiles: fsStore,
			readings: fsStore,
			close: func() {
				if err := fsStore.Close(); err != nil {
					log.Warn("closing firestore client", "error", err)
				}
			},
		}, nil

	default:
		log.Info("[STORE] Using in-memory storage")
		return &stores{
			profiles: memstore.NewProfileStore(),
			readings: memstore.NewReadingStore(),
			close:    func() {},
		}, nil
	}
}
