package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/busybeaver"
	"github.com/aretw0/busybeaver/internal/config"
	"github.com/aretw0/busybeaver/pkg/adapters/file"
	"github.com/aretw0/busybeaver/pkg/adapters/memory"
	"github.com/aretw0/busybeaver/pkg/adapters/redis"
	"github.com/aretw0/busybeaver/pkg/adapters/sqlite"
	"github.com/aretw0/busybeaver/pkg/domain"
	"github.com/aretw0/busybeaver/pkg/enumerate"
	"github.com/aretw0/busybeaver/pkg/observability"
	"github.com/aretw0/busybeaver/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// Backend bundles the persistence chosen by the configuration.
type Backend struct {
	Store  ports.ResultStore
	Locker ports.RunLocker
	close  func() error
}

// Close releases connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the result store and locker selected by cfg.
// The "none" kind yields an empty backend.
func OpenBackend(cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Kind {
	case config.StoreNone, "":
		return &Backend{}, nil
	case config.StoreMemory:
		return &Backend{Store: memory.NewStore(), Locker: memory.NewLocker()}, nil
	case config.StoreFile:
		// File and SQLite stores are local to one host, so an in-process lock is enough.
		return &Backend{Store: file.New(cfg.Path), Locker: memory.NewLocker()}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Locker: memory.NewLocker(), close: store.Close}, nil
	case config.StoreRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return &Backend{
			Store:  redis.NewFromClient(client, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Redis.TTL)),
			Locker: redis.NewLocker(client, cfg.Redis.Prefix),
			close:  client.Close,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown store kind %q", config.ErrInvalid, cfg.Kind)
}

// NewEngine wires an engine with metrics registered on reg and the given backend.
func NewEngine(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, b *Backend) (*busybeaver.Engine, error) {
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return busybeaver.New(
		busybeaver.WithLogger(logger),
		busybeaver.WithWorkers(cfg.Search.Workers),
		busybeaver.WithMetrics(metrics),
		busybeaver.WithStore(b.Store),
		busybeaver.WithLocker(b.Locker),
	), nil
}

// Space builds the enumeration described by cfg.
func Space(cfg config.SearchConfig) (*enumerate.Enumerator, error) {
	return busybeaver.Enumerate(
		states(cfg.States),
		symbols(cfg.Alphabet),
		states(cfg.Finals),
		domain.Symbol(cfg.Blank),
	)
}

func states(in []string) []domain.State {
	out := make([]domain.State, len(in))
	for i, s := range in {
		out[i] = domain.State(s)
	}
	return out
}

func symbols(in []string) []domain.Symbol {
	out := make([]domain.Symbol, len(in))
	for i, s := range in {
		out[i] = domain.Symbol(s)
	}
	return out
}
