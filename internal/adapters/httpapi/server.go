package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/app/evaluations"
	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
	"github.com/ecgf-team/roster-api/internal/app/transfer"
	"github.com/ecgf-team/roster-api/internal/domain"
)

// MaxImportBytes bounds an import upload.
const MaxImportBytes = 10 << 20

type Server struct {
	members     *members.Service
	evaluations *evaluations.Service
	growth      *growth.Service
}

func NewServer(membersSvc *members.Service, evaluationsSvc *evaluations.Service, growthSvc *growth.Service) *Server {
	return &Server{members: membersSvc, evaluations: evaluationsSvc, growth: growthSvc}
}

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := s.members.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MembersResponse{Members: nonNil(ms)})
}

func (s *Server) SearchMembers(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	ms, err := s.members.Search(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MembersResponse{Members: nonNil(ms)})
}

func (s *Server) CreateMember(w http.ResponseWriter, r *http.Request) {
	var body CreateMemberRequest
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := s.members.Create(r.Context(), body.candidate())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/members/"+string(m.ID))
	writeJSON(w, http.StatusCreated, MemberResponse{Member: m})
}

func (s *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	id := memberIDParam(r)
	m, ok, err := s.members.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeDomainError(w, r, &domain.NotFoundError{Kind: "member", ID: string(id)})
		return
	}
	writeJSON(w, http.StatusOK, MemberResponse{Member: m})
}

func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var body UpdateMemberRequest
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := s.members.Update(r.Context(), memberIDParam(r), body.patch())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MemberResponse{Member: m})
}

// DeleteMember removes the member and their evaluation.
func (s *Server) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := memberIDParam(r)
	if err := s.members.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.evaluations.Remove(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MemberStats(w http.ResponseWriter, r *http.Request) {
	includeSecondary, err := boolParam(r, "includeSecondary", false)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	st, err := s.members.Stats(r.Context(), includeSecondary)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) ExportMembers(w http.ResponseWriter, r *http.Request) {
	f, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	ms, err := s.members.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	data, err := transfer.Encode(f, ms)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportMembers reads the request body as a roster file. Nothing is stored unless every row is valid.
func (s *Server) ImportMembers(w http.ResponseWriter, r *http.Request) {
	f, err := transfer.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	opts := members.DefaultMergeOptions()
	if opts.SkipDuplicates, err = boolParam(r, "skipDuplicates", opts.SkipDuplicates); err != nil {
		writeDomainError(w, r, err)
		return
	}
	switch key := members.DuplicateKey(r.URL.Query().Get("duplicateKey")); key {
	case "":
	case members.DuplicateByName, members.DuplicateByID:
		opts.Key = key
	default:
		writeDomainError(w, r, domain.NewValidationError(fmt.Sprintf("duplicateKey는 name 또는 id여야 합니다: %s", key)))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		if mbe := (*http.MaxBytesError)(nil); errors.As(err, &mbe) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "import file is too large", map[string]any{"limit": mbe.Limit})
			return
		}
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "could not read request body", nil)
		return
	}
	cands, err := transfer.Parse(f, data)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	res, err := s.members.Import(r.Context(), cands, opts)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Added: nonNil(res.Added), Skipped: res.Skipped})
}

func (s *Server) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := memberIDParam(r)
	if !s.requireMember(w, r, id) {
		return
	}
	rec, ok, err := s.evaluations.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeDomainError(w, r, &domain.NotFoundError{Kind: "evaluation", ID: string(id)})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// PutEvaluation replaces the member's evaluation.
func (s *Server) PutEvaluation(w http.ResponseWriter, r *http.Request) {
	id := memberIDParam(r)
	var body domain.Evaluation
	if !decodeBody(w, r, &body) {
		return
	}
	if !s.requireMember(w, r, id) {
		return
	}
	rec, err := s.evaluations.Save(r.Context(), id, body)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) GetGrowthPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.growth.Plan(r.Context(), memberIDParam(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) ListMentoringMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.growth.Matches(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) LevelForYears(w http.ResponseWriter, r *http.Request) {
	years, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("years")))
	if err != nil {
		writeDomainError(w, r, domain.NewValidationError("years는 정수여야 합니다."))
		return
	}
	level := domain.LevelForYears(years)
	rng, _ := domain.LevelRange(level)
	writeJSON(w, http.StatusOK, LevelForYearsResponse{Years: years, Level: level, Range: rng.String()})
}

func (s *Server) LevelCapabilities(w http.ResponseWriter, r *http.Request) {
	level, err := domain.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	matrix, err := evaluations.CapabilityMatrix(level)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	blank, err := evaluations.EmptyChecklists(level)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	rng, _ := domain.LevelRange(level)
	writeJSON(w, http.StatusOK, CapabilitiesResponse{
		Level:        level,
		Range:        rng.String(),
		Capabilities: matrix.Capabilities,
		Checklists:   blank,
	})
}

func (s *Server) requireMember(w http.ResponseWriter, r *http.Request, id domain.MemberID) bool {
	_, ok, err := s.members.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return false
	}
	if !ok {
		writeDomainError(w, r, &domain.NotFoundError{Kind: "member", ID: string(id)})
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		LoggerFromContext(r.Context()).Debug("invalid request body", zap.Error(err))
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return false
	}
	return true
}

func memberIDParam(r *http.Request) domain.MemberID {
	return domain.MemberID(chi.URLParam(r, "memberId"))
}

func queryFromRequest(r *http.Request) (members.Query, error) {
	v := r.URL.Query()
	q := members.Query{
		SearchTerm:    v.Get("q"),
		Level:         levelParam(v.Get("level")),
		Archetype:     archetypeParam(v.Get("archetype")),
		ArchetypeType: domain.ArchetypeMatch(v.Get("archetypeType")),
	}
	var err error
	if q.YearsMin, err = intParam(r, "yearsMin"); err != nil {
		return members.Query{}, err
	}
	if q.YearsMax, err = intParam(r, "yearsMax"); err != nil {
		return members.Query{}, err
	}
	return q, nil
}

func intParam(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("%s는 정수여야 합니다.", name))
	}
	return &n, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(fmt.Sprintf("%s는 true 또는 false여야 합니다.", name))
	}
	return b, nil
}

func nonNil(ms []domain.Member) []domain.Member {
	if ms == nil {
		return []domain.Member{}
	}
	return ms
}
