// Package bootstrap builds the application services on top of the configured storage backend.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	memevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/evaluationrepo"
	memidempotency "github.com/ecgf-team/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/memberrepo"
	"github.com/ecgf-team/roster-api/internal/adapters/postgres"
	pgevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/postgres/evaluationrepo"
	pgidempotency "github.com/ecgf-team/roster-api/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/ecgf-team/roster-api/internal/adapters/postgres/memberrepo"
	"github.com/ecgf-team/roster-api/internal/adapters/sqlite"
	sqliteevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/sqlite/evaluationrepo"
	sqliteidempotency "github.com/ecgf-team/roster-api/internal/adapters/sqlite/idempotency"
	sqlitememberrepo "github.com/ecgf-team/roster-api/internal/adapters/sqlite/memberrepo"
	"github.com/ecgf-team/roster-api/internal/app/evaluations"
	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
	platformclock "github.com/ecgf-team/roster-api/internal/platform/clock"
	"github.com/ecgf-team/roster-api/internal/platform/config"
	evaluationrepoport "github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
	idempotencyport "github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

type App struct {
	Members     *members.Service
	Evaluations *evaluations.Service
	Growth      *growth.Service
	Idempotency idempotencyport.Store

	close func()
}

// Close releases the storage backend.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Open connects the configured backend and wires the services with policy applied.
func Open(ctx context.Context, cfg config.Config, policy config.Policy, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		memberRepo memberrepoport.Repository
		evalRepo   evaluationrepoport.Repository
		idemStore  idempotencyport.Store
		closeFn    func()
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		memberRepo = pgmemberrepo.NewRepo(pool)
		evalRepo = pgevaluationrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
		closeFn = pool.Close
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		memberRepo = sqlitememberrepo.NewRepo(store)
		evalRepo = sqliteevaluationrepo.NewRepo(store)
		idemStore = sqliteidempotency.NewStore(store)
		closeFn = func() { _ = store.Close() }
	case config.BackendMemory, "":
		memberRepo = memmemberrepo.NewRepo()
		evalRepo = memevaluationrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	log.Info("storage ready", zap.String("backend", cfg.StorageBackend))

	memberSvc := members.NewService(memberRepo, log.Named("members"))
	memberSvc.NameMatch = policy.Search
	memberSvc.StrictLevelRange = cfg.StrictLevelRange

	evalSvc := evaluations.NewService(evalRepo, platformclock.NewSystemClock(), log.Named("evaluations"))

	growthSvc := growth.NewService(memberRepo, evalSvc, log.Named("growth"))
	growthSvc.Matcher = policy.Mentoring

	return &App{
		Members:     memberSvc,
		Evaluations: evalSvc,
		Growth:      growthSvc,
		Idempotency: idemStore,
		close:       closeFn,
	}, nil
}
