package httpapi

import (
	"github.com/oapi-codegen/nullable"

	"github.com/ecgf-team/roster-api/internal/app/members"
	"github.com/ecgf-team/roster-api/internal/domain"
)

type CreateMemberRequest struct {
	ID                 string   `json:"id,omitempty"`
	Name               string   `json:"name"`
	PrimaryArchetype   string   `json:"primaryArchetype"`
	SecondaryArchetype string   `json:"secondaryArchetype,omitempty"`
	Years              *float64 `json:"years"`
	Level              string   `json:"level"`
}

func (b CreateMemberRequest) candidate() domain.Candidate {
	return domain.Candidate{
		ID:                 domain.MemberID(b.ID),
		Name:               b.Name,
		PrimaryArchetype:   archetypeParam(b.PrimaryArchetype),
		SecondaryArchetype: archetypeParam(b.SecondaryArchetype),
		Years:              b.Years,
		Level:              levelParam(b.Level),
	}
}

// UpdateMemberRequest is a partial update. An omitted field is left alone; an explicit
// null clears it (only secondaryArchetype may be cleared and stay valid).
type UpdateMemberRequest struct {
	Name               nullable.Nullable[string]  `json:"name,omitempty"`
	PrimaryArchetype   nullable.Nullable[string]  `json:"primaryArchetype,omitempty"`
	SecondaryArchetype nullable.Nullable[string]  `json:"secondaryArchetype,omitempty"`
	Years              nullable.Nullable[float64] `json:"years,omitempty"`
	Level              nullable.Nullable[string]  `json:"level,omitempty"`
}

func (b UpdateMemberRequest) patch() members.Patch {
	return members.Patch{
		Name:               optionalFromNullable(b.Name, func(s string) string { return s }),
		PrimaryArchetype:   optionalFromNullable(b.PrimaryArchetype, archetypeParam),
		SecondaryArchetype: optionalFromNullable(b.SecondaryArchetype, archetypeParam),
		Years:              optionalFromNullable(b.Years, func(f float64) float64 { return f }),
		Level:              optionalFromNullable(b.Level, levelParam),
	}
}

func optionalFromNullable[T, U any](n nullable.Nullable[T], conv func(T) U) members.Optional[U] {
	if !n.IsSpecified() {
		return members.Unspecified[U]()
	}
	if n.IsNull() {
		return members.Null[U]()
	}
	v, err := n.Get()
	if err != nil {
		return members.Null[U]()
	}
	return members.Some(conv(v))
}

// archetypeParam accepts the label or its slug. Anything else is passed on for validation to report.
func archetypeParam(s string) domain.Archetype {
	if s == "" {
		return ""
	}
	if a, err := domain.ParseArchetype(s); err == nil {
		return a
	}
	return domain.Archetype(s)
}

func levelParam(s string) domain.Level {
	if s == "" {
		return ""
	}
	if l, err := domain.ParseLevel(s); err == nil {
		return l
	}
	return domain.Level(s)
}

type MembersResponse struct {
	Members []domain.Member `json:"members"`
}

type MemberResponse struct {
	Member domain.Member `json:"member"`
}

type ImportResponse struct {
	Added   []domain.Member `json:"added"`
	Skipped int             `json:"skipped"`
}

type LevelForYearsResponse struct {
	Years int          `json:"years"`
	Level domain.Level `json:"level"`
	Range string       `json:"range"`
}

type CapabilitiesResponse struct {
	Level        domain.Level                 `json:"level"`
	Range        string                       `json:"range"`
	Capabilities map[domain.Category][]string `json:"capabilities"`
	Checklists   domain.Checklists            `json:"checklists"`
}
