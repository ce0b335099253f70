package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

type RouterOptions struct {
	Logger *zap.Logger
	// Idempotency enables Idempotency-Key replay on the creating routes when set.
	Idempotency idempotency.Store
	// IdempotencyTTL limits how long a key is honoured; zero means no limit.
	IdempotencyTTL time.Duration
}

// NewRouter constructs the API HTTP router.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	idem := NewIdempotency(opts.Idempotency, opts.IdempotencyTTL)

	r.Route("/members", func(r chi.Router) {
		r.Get("/", s.ListMembers)
		r.With(idem).Post("/", s.CreateMember)
		r.Get("/search", s.SearchMembers)
		r.Get("/stats", s.MemberStats)
		r.Get("/export", s.ExportMembers)
		r.With(idem).Post("/import", s.ImportMembers)

		r.Route("/{memberId}", func(r chi.Router) {
			r.Get("/", s.GetMember)
			r.Patch("/", s.UpdateMember)
			r.Delete("/", s.DeleteMember)
			r.Get("/evaluation", s.GetEvaluation)
			r.Put("/evaluation", s.PutEvaluation)
			r.Get("/growth", s.GetGrowthPlan)
		})
	})

	r.Get("/mentoring/matches", s.ListMentoringMatches)
	r.Get("/levels/for-years", s.LevelForYears)
	r.Get("/levels/{level}/capabilities", s.LevelCapabilities)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}
