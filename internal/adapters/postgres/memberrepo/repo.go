package memberrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ecgf-team/roster-api/internal/adapters/postgres"
	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

// Repo is a Postgres implementation of memberrepo.Repository.
// Save rewrites the members table in one transaction; position keeps the saved order.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var columns = []string{"id", "position", "name", "primary_archetype", "secondary_archetype", "years", "level"}

func (r *Repo) Load(ctx context.Context) ([]domain.Member, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, primary_archetype, secondary_archetype, years, level
		FROM members
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Save(ctx context.Context, members []domain.Member) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	seen := make(map[domain.MemberID]struct{}, len(members))
	rows := make([][]any, 0, len(members))
	for i, m := range members {
		if _, dup := seen[m.ID]; dup {
			return memberrepo.ErrDuplicateID
		}
		seen[m.ID] = struct{}{}
		rows = append(rows, []any{
			string(m.ID),
			i,
			m.Name,
			string(m.PrimaryArchetype),
			nullableArchetype(m.SecondaryArchetype),
			m.Years,
			string(m.Level),
		})
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM members`); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"members"}, columns, pgx.CopyFromRows(rows))
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return memberrepo.ErrDuplicateID
		}
		return err
	})
}

func scanMember(row interface {
	Scan(dest ...any) error
}) (domain.Member, error) {
	var (
		m         domain.Member
		id        string
		primary   string
		secondary *string
		level     string
	)
	if err := row.Scan(&id, &m.Name, &primary, &secondary, &m.Years, &level); err != nil {
		return domain.Member{}, err
	}
	m.ID = domain.MemberID(id)
	m.PrimaryArchetype = domain.Archetype(primary)
	if secondary != nil {
		m.SecondaryArchetype = domain.Archetype(*secondary)
	}
	m.Level = domain.Level(level)
	return m, nil
}

func nullableArchetype(a domain.Archetype) *string {
	if a == "" {
		return nil
	}
	s := string(a)
	return &s
}
