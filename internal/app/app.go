// Package app assembles the order service from configuration. The HTTP
// server and the command-line tool share it.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"siva-proposals-backend/internal/airtable"
	"siva-proposals-backend/internal/config"
	"siva-proposals-backend/internal/database"
	"siva-proposals-backend/internal/events"
	"siva-proposals-backend/internal/proposal"
	"siva-proposals-backend/internal/relay"
	"siva-proposals-backend/internal/services"
	"siva-proposals-backend/internal/store"
	"siva-proposals-backend/internal/supabase"
)

const watchInterval = 3 * time.Second

type App struct {
	Store     store.OrderStore
	Relay     relay.Notifier
	Events    events.Publisher
	Generator *proposal.Generator
	Service   *services.OrderService
	Watcher   *services.OrderWatcher

	log *zap.Logger
}

// New builds every dependency named by cfg. Optional collaborators (storage,
// events, migrations) are skipped with a warning when unconfigured.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	orders, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}

	var notifier relay.Notifier
	if cfg.MockMode {
		log.Warn("mock mode enabled, relay calls are recorded and not sent")
		notifier = relay.NewRecorder()
	} else {
		notifier = relay.NewClient(relay.URLs{
			ImageGeneration: cfg.WebhookImageGeneration,
			ImageEdit:       cfg.WebhookImageEdit,
			PDFGeneration:   cfg.WebhookPDFGeneration,
			SendProposal:    cfg.WebhookSendProposal,
		})
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("publishing order events",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	var storage services.ProposalStorage
	if cfg.StorageConfigured() {
		sc, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage client: %w", err)
		}
		storage = sc
	} else {
		log.Warn("storage not configured, generated proposals will not be persisted")
	}

	generator := proposal.NewGenerator(
		proposal.NewImageFetcher(cfg.ImageFetchTimeout, cfg.ImageFetchRetries),
		proposal.WithFetchBudget(cfg.ImageFetchBudget),
	)

	svc := services.NewOrderService(services.Dependencies{
		Store:     orders,
		Relay:     notifier,
		Events:    publisher,
		Generator: generator,
		Storage:   storage,
		Logger:    log,
	})

	return &App{
		Store:     orders,
		Relay:     notifier,
		Events:    publisher,
		Generator: generator,
		Service:   svc,
		Watcher:   services.NewOrderWatcher(orders, watchInterval),
		log:       log,
	}, nil
}

func newStore(cfg *config.Config, log *zap.Logger) (store.OrderStore, error) {
	if cfg.MockMode {
		return store.NewMemoryStore(store.Fixtures()...), nil
	}

	switch cfg.RecordStore {
	case config.StoreAirtable:
		client := airtable.NewClient(cfg.AirtableAPIURL, cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTableName)
		return airtable.NewOrderStore(client), nil
	case config.StoreSupabase:
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
		migrate(cfg.DatabaseURL, log)
		return supabase.NewDatabaseClient(client), nil
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown record store %q", cfg.RecordStore)
	}
}

// migrate applies the orders schema when a direct database URL is set.
// Failures are logged; the PostgREST client still works against an
// already-migrated database.
func migrate(dbURL string, log *zap.Logger) {
	if dbURL == "" {
		log.Warn("DATABASE_URL not set, migrations skipped")
		return
	}

	migrator, err := database.NewMigrator(dbURL, log)
	if err != nil {
		log.Warn("failed to initialize migrator", zap.Error(err))
		return
	}
	defer migrator.Close()

	if err := migrator.Run(); err != nil {
		log.Warn("migration failed", zap.Error(err))
		return
	}
	log.Info("migrations completed")
}

// Close releases the event publisher.
func (a *App) Close() {
	if err := a.Events.Close(); err != nil {
		a.log.Warn("failed to close event publisher", zap.Error(err))
	}
}
