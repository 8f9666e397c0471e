package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	electionservice "electorate/internal/elections/service"
	"electorate/internal/elections/store/election"
	"electorate/internal/events"
	moderationservice "electorate/internal/moderation/service"
	"electorate/internal/moderation/store/history"
	orgservice "electorate/internal/organisations/service"
	"electorate/internal/organisations/store/divisionset"
	"electorate/internal/organisations/store/organisation"
	"electorate/internal/platform/config"
	"electorate/internal/platform/logger"
	"electorate/internal/platform/postgres"
)

// app bundles the wired services a command needs. Commands share one
// construction path so store selection and notifier wiring stay in one
// place.
type app struct {
	log           *slog.Logger
	organisations *orgservice.Service
	elections     *electionservice.Service
	moderation    *moderationservice.Service

	pool  *pgxpool.Pool
	kafka *events.Kafka
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.FromEnv()
	a := &app{log: logger.New()}

	var (
		orgStore      orgservice.OrganisationStore   = organisation.NewInMemory()
		setStore      orgservice.DivisionSetStore    = divisionset.NewInMemory()
		electionStore electionservice.Store          = election.NewInMemory()
		historyStore  moderationservice.HistoryStore = history.NewInMemory()
		runner        *postgres.Runner
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connect: %w", err)
		}
		a.pool = pool
		orgStore = organisation.NewPostgres(pool)
		setStore = divisionset.NewPostgres(pool)
		electionStore = election.NewPostgres(pool)
		historyStore = history.NewPostgres(pool)
		runner = postgres.NewRunner(pool)
	}

	var notifier events.Notifier = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(cfg.KafkaBrokers, cfg.EventsTopic, a.log)
		if err != nil {
			return nil, fmt.Errorf("kafka connect: %w", err)
		}
		a.kafka = kafka
		notifier = kafka
	}

	orgOpts := []orgservice.Option{orgservice.WithLogger(a.log)}
	electionOpts := []electionservice.Option{electionservice.WithLogger(a.log)}
	moderationOpts := []moderationservice.Option{
		moderationservice.WithLogger(a.log),
		moderationservice.WithNotifier(notifier),
		moderationservice.WithEventSource(cfg.EventsSource),
	}
	if runner != nil {
		orgOpts = append(orgOpts, orgservice.WithTx(runner))
		electionOpts = append(electionOpts, electionservice.WithTx(runner))
		moderationOpts = append(moderationOpts, moderationservice.WithTx(runner))
	}

	a.organisations = orgservice.New(orgStore, setStore, orgOpts...)
	a.moderation = moderationservice.New(historyStore,
		electionservice.NewDirectory(electionStore), moderationOpts...)
	electionOpts = append(electionOpts,
		electionservice.WithStatusSeeder(a.moderation),
		electionservice.WithStatusReader(a.moderation),
	)
	a.elections = electionservice.New(electionStore, electionOpts...)

	return a, nil
}

func (a *app) close() {
	if a.kafka != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.kafka.Close(ctx); err != nil {
			a.log.Error("kafka close failed", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
