package memberrepo

import (
	"testing"

	"github.com/ecgf-team/roster-api/internal/adapters/contracttest"
	"github.com/ecgf-team/roster-api/internal/adapters/postgres/testutil"
	memberrepoport "github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

func TestContract_PostgresMemberRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t, "members")

	contracttest.RunMemberRepo(t, func(t *testing.T) (memberrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
