package growth

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/app/evaluations"
	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

// EvaluationLookup is the part of the evaluations service a plan needs.
type EvaluationLookup interface {
	Get(ctx context.Context, memberID domain.MemberID) (domain.EvaluationRecord, bool, error)
}

type Service struct {
	members memberrepo.Repository
	evals   EvaluationLookup
	log     *zap.Logger

	Matcher Matcher
}

func NewService(members memberrepo.Repository, evals EvaluationLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{members: members, evals: evals, log: log, Matcher: DefaultMatcher()}
}

// Plan bundles everything known about one member's development.
// Gaps and Promotion are set only when the member has checklist results.
type Plan struct {
	Member    domain.Member          `json:"member"`
	Growth    GrowthPath             `json:"growth"`
	Archetype ArchetypePath          `json:"archetype"`
	Gaps      *GapPlan               `json:"gaps,omitempty"`
	Promotion *evaluations.Promotion `json:"promotion,omitempty"`
	Mentors   []domain.Member        `json:"mentors"`
	Mentees   []domain.Member        `json:"mentees"`
}

func (s *Service) Plan(ctx context.Context, id domain.MemberID) (Plan, error) {
	roster, err := s.members.Load(ctx)
	if err != nil {
		return Plan{}, err
	}
	i := indexOf(roster, id)
	if i < 0 {
		return Plan{}, &domain.NotFoundError{Kind: "member", ID: string(id)}
	}
	m := roster[i]

	gp, err := RecommendGrowthPath(m)
	if err != nil {
		return Plan{}, err
	}
	p := Plan{
		Member:    m,
		Growth:    gp,
		Archetype: RecommendPathByArchetype(m),
		Mentors:   s.Matcher.FindMentors(roster, m),
		Mentees:   s.Matcher.FindMentees(roster, m),
	}

	rec, ok, err := s.evals.Get(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if ok && rec.Evaluation.Checklists != nil {
		gaps := RecommendPathByGap(m, *rec.Evaluation.Checklists)
		promo := evaluations.CheckPromotionCriteria(*rec.Evaluation.Checklists)
		p.Gaps = &gaps
		p.Promotion = &promo
	}
	s.log.Debug("growth plan built", zap.String("member_id", string(id)), zap.Int("mentors", len(p.Mentors)))
	return p, nil
}

// Matches runs MatchRoster over the stored roster.
func (s *Service) Matches(ctx context.Context) ([]Match, error) {
	roster, err := s.members.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Matcher.MatchRoster(roster), nil
}

func indexOf(ms []domain.Member, id domain.MemberID) int {
	for i, m := range ms {
		if m.ID == id {
			return i
		}
	}
	return -1
}
