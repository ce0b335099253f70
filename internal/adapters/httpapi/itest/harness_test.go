package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ecgf-team/roster-api/internal/adapters/httpapi"
	memclock "github.com/ecgf-team/roster-api/internal/adapters/memory/clock"
	memevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/evaluationrepo"
	memidempotency "github.com/ecgf-team/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/memberrepo"
	pgevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/postgres/evaluationrepo"
	pgidempotency "github.com/ecgf-team/roster-api/internal/adapters/postgres/idempotency"
	pgmemberrepo "github.com/ecgf-team/roster-api/internal/adapters/postgres/memberrepo"
	postgres_testutil "github.com/ecgf-team/roster-api/internal/adapters/postgres/testutil"
	"github.com/ecgf-team/roster-api/internal/adapters/sqlite"
	sqliteevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/sqlite/evaluationrepo"
	sqliteidempotency "github.com/ecgf-team/roster-api/internal/adapters/sqlite/idempotency"
	sqlitememberrepo "github.com/ecgf-team/roster-api/internal/adapters/sqlite/memberrepo"
	"github.com/ecgf-team/roster-api/internal/app/evaluations"
	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
	evaluationrepoport "github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
	idempotencyport "github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		memberRepo memberrepoport.Repository
		evalRepo   evaluationrepoport.Repository
		idemStore  idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t, "members", "evaluations", "idempotency_keys")
		memberRepo = pgmemberrepo.NewRepo(pool)
		evalRepo = pgevaluationrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendSQLite:
		store, err := sqlite.Open(filepath.Join(t.TempDir(), "itest.db"))
		if err != nil {
			t.Fatalf("sqlite.Open() err=%v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		memberRepo = sqlitememberrepo.NewRepo(store)
		evalRepo = sqliteevaluationrepo.NewRepo(store)
		idemStore = sqliteidempotency.NewStore(store)
	case backendMemory:
		memberRepo = memmemberrepo.NewRepo()
		evalRepo = memevaluationrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	memberSvc := members.NewService(memberRepo, nil)
	evalSvc := evaluations.NewService(evalRepo, clk, nil)
	growthSvc := growth.NewService(memberRepo, evalSvc, nil)
	api := httpapi.NewServer(memberSvc, evalSvc, growthSvc)

	srv := httptest.NewServer(httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{Idempotency: idemStore}))
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	return s.do(t, method, path, "application/json", r, headers...)
}

// do sends one request. headers are name/value pairs.
func (s *testServer) do(t *testing.T, method string, path string, contentType string, body io.Reader, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	req, err := http.NewRequest(method, s.url(path), body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
