package members

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

type Service struct {
	repo memberrepo.Repository
	log  *zap.Logger

	newMemberID func() domain.MemberID

	// NameMatch configures name matching for Search.
	NameMatch SearchConfig
	// StrictLevelRange additionally requires years to fall inside the level's band on create/update.
	StrictLevelRange bool
}

func NewService(repo memberrepo.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		log:         log,
		newMemberID: NewMemberID,
		NameMatch:   DefaultSearchConfig(),
	}
}

// NewMemberID returns a UUIDv7: a millisecond timestamp prefix followed by random bits.
func NewMemberID() domain.MemberID {
	return domain.MemberID(uuid.Must(uuid.NewV7()).String())
}

// List returns the roster ordered by SortMembers.
func (s *Service) List(ctx context.Context) ([]domain.Member, error) {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SortMembers(ms), nil
}

// Search filters the roster and orders the result by SortMembers.
func (s *Service) Search(ctx context.Context, q Query) ([]domain.Member, error) {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SortMembers(ApplyFilters(ms, q, s.NameMatch)), nil
}

// Get looks a member up by id; ok is false when there is no such member.
func (s *Service) Get(ctx context.Context, id domain.MemberID) (domain.Member, bool, error) {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Member{}, false, err
	}
	if i := indexOf(ms, id); i >= 0 {
		return ms[i], true, nil
	}
	return domain.Member{}, false, nil
}

func (s *Service) Create(ctx context.Context, c domain.Candidate) (domain.Member, error) {
	c.ID = domain.MemberID(strings.TrimSpace(string(c.ID)))
	m, err := s.build(c)
	if err != nil {
		return domain.Member{}, err
	}

	ms, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Member{}, err
	}
	if indexOf(ms, m.ID) >= 0 {
		return domain.Member{}, domain.NewValidationError("이미 존재하는 부서원 ID입니다.")
	}
	ms = append(ms, m)
	if err := s.repo.Save(ctx, ms); err != nil {
		return domain.Member{}, err
	}
	s.log.Info("member created", zap.String("member_id", string(m.ID)), zap.String("level", string(m.Level)))
	return m, nil
}

// Update merges p into the stored member and re-validates the result as a whole.
func (s *Service) Update(ctx context.Context, id domain.MemberID, p Patch) (domain.Member, error) {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Member{}, err
	}
	i := indexOf(ms, id)
	if i < 0 {
		return domain.Member{}, &domain.NotFoundError{Kind: "member", ID: string(id)}
	}

	c := domain.CandidateFromMember(ms[i])
	applyPatch(&c, p)
	m, err := s.build(c)
	if err != nil {
		return domain.Member{}, err
	}

	ms[i] = m
	if err := s.repo.Save(ctx, ms); err != nil {
		return domain.Member{}, err
	}
	s.log.Info("member updated", zap.String("member_id", string(id)))
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id domain.MemberID) error {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(ms, id)
	if i < 0 {
		return &domain.NotFoundError{Kind: "member", ID: string(id)}
	}
	ms = append(ms[:i], ms[i+1:]...)
	if err := s.repo.Save(ctx, ms); err != nil {
		return err
	}
	s.log.Info("member deleted", zap.String("member_id", string(id)))
	return nil
}

// Stats summarises the stored roster.
func (s *Service) Stats(ctx context.Context, includeSecondary bool) (Statistics, error) {
	ms, err := s.repo.Load(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(ms, includeSecondary), nil
}

// Import validates every candidate first and applies nothing if any row fails.
func (s *Service) Import(ctx context.Context, cands []domain.Candidate, opts MergeOptions) (ImportResult, error) {
	if err := ValidateImported(cands).Err(); err != nil {
		return ImportResult{}, err
	}
	imported := make([]domain.Member, 0, len(cands))
	for _, c := range cands {
		m, err := domain.NewMember(c, s.newMemberID)
		if err != nil {
			return ImportResult{}, err
		}
		imported = append(imported, m)
	}

	existing, err := s.repo.Load(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	if opts.NewID == nil {
		opts.NewID = s.newMemberID
	}
	merged, added := Merge(existing, imported, opts)
	if len(added) > 0 {
		if err := s.repo.Save(ctx, merged); err != nil {
			return ImportResult{}, err
		}
	}
	res := ImportResult{Added: added, Skipped: len(imported) - len(added)}
	s.log.Info("members imported", zap.Int("added", len(added)), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (s *Service) build(c domain.Candidate) (domain.Member, error) {
	m, err := domain.NewMember(c, s.newMemberID)
	if err != nil {
		return domain.Member{}, err
	}
	if s.StrictLevelRange {
		if err := domain.ValidateBoundaryValues(domain.CandidateFromMember(m)).Err(); err != nil {
			return domain.Member{}, err
		}
	}
	return m, nil
}

func applyPatch(c *domain.Candidate, p Patch) {
	if p.Name.IsSpecified() {
		c.Name = p.Name.Value()
	}
	if p.PrimaryArchetype.IsSpecified() {
		c.PrimaryArchetype = p.PrimaryArchetype.Value()
	}
	if p.SecondaryArchetype.IsSpecified() {
		c.SecondaryArchetype = p.SecondaryArchetype.Value()
	}
	if p.Years.IsSpecified() {
		if p.Years.IsNull() {
			c.Years = nil
		} else {
			y := p.Years.Value()
			c.Years = &y
		}
	}
	if p.Level.IsSpecified() {
		c.Level = p.Level.Value()
	}
}

func indexOf(ms []domain.Member, id domain.MemberID) int {
	for i, m := range ms {
		if m.ID == id {
			return i
		}
	}
	return -1
}
