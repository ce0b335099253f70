package evaluations

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/domain"
	clockport "github.com/ecgf-team/roster-api/internal/ports/out/clock"
	"github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
)

type Service struct {
	repo evaluationrepo.Repository
	clk  clockport.Clock
	log  *zap.Logger
}

func NewService(repo evaluationrepo.Repository, clk clockport.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, clk: clk, log: log}
}

// Save stores ev as the member's active evaluation, replacing any previous one.
// The weighted score is recomputed from whichever raw scores are present.
func (s *Service) Save(ctx context.Context, memberID domain.MemberID, ev domain.Evaluation) (domain.EvaluationRecord, error) {
	if strings.TrimSpace(string(memberID)) == "" {
		return domain.EvaluationRecord{}, domain.NewValidationError("부서원 ID는 필수입니다.")
	}
	if err := validateChecklists(ev.Checklists); err != nil {
		return domain.EvaluationRecord{}, err
	}

	records, err := s.repo.Load(ctx)
	if err != nil {
		return domain.EvaluationRecord{}, err
	}

	var scores domain.Scores
	if ev.Scores != nil {
		scores = *ev.Scores
	}
	rec := domain.EvaluationRecord{
		MemberID:   memberID,
		Evaluation: ev,
		Timestamp:  s.clk.Now(),
		Score:      ComputeWeightedScore(scores),
	}

	replaced := false
	for i := range records {
		if records[i].MemberID == memberID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	if err := s.repo.Save(ctx, records); err != nil {
		return domain.EvaluationRecord{}, err
	}
	s.log.Debug("evaluation saved",
		zap.String("member_id", string(memberID)),
		zap.Bool("replaced", replaced),
		zap.Int("total_score", rec.Score.TotalScore),
	)
	return rec, nil
}

// Get returns the member's active evaluation; ok is false when none exists.
func (s *Service) Get(ctx context.Context, memberID domain.MemberID) (domain.EvaluationRecord, bool, error) {
	if memberID == "" {
		return domain.EvaluationRecord{}, false, nil
	}
	records, err := s.repo.Load(ctx)
	if err != nil {
		return domain.EvaluationRecord{}, false, err
	}
	for _, r := range records {
		if r.MemberID == memberID {
			return r, true, nil
		}
	}
	return domain.EvaluationRecord{}, false, nil
}

func (s *Service) List(ctx context.Context) ([]domain.EvaluationRecord, error) {
	return s.repo.Load(ctx)
}

// Remove drops the member's evaluation if there is one.
func (s *Service) Remove(ctx context.Context, memberID domain.MemberID) error {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.MemberID != memberID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.repo.Save(ctx, kept)
}

func validateChecklists(c *domain.Checklists) error {
	if c == nil {
		return nil
	}
	var msgs []string
	for _, cat := range domain.Categories {
		cl := c.Get(cat)
		if cl == nil {
			continue
		}
		if cl.Achieved < 0 || cl.Total < 0 || cl.Achieved > cl.Total {
			msgs = append(msgs, cat.Label()+": 달성 항목 수는 0 이상, 전체 항목 수 이하여야 합니다.")
		}
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(msgs...)
	}
	return nil
}
