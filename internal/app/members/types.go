package members

import "github.com/ecgf-team/roster-api/internal/domain"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// Patch is a partial member update. Unspecified fields keep their current value.
// Null clears a field; only SecondaryArchetype may be cleared without failing validation.
type Patch struct {
	Name               Optional[string]
	PrimaryArchetype   Optional[domain.Archetype]
	SecondaryArchetype Optional[domain.Archetype]
	Years              Optional[float64]
	Level              Optional[domain.Level]
}

// DuplicateKey selects how Import recognises a member that already exists.
type DuplicateKey string

const (
	DuplicateByName DuplicateKey = "name"
	DuplicateByID   DuplicateKey = "id"
)

type MergeOptions struct {
	// SkipDuplicates drops imported members that match an existing one by Key.
	SkipDuplicates bool
	Key            DuplicateKey
	// NewID re-keys a kept member whose id is already taken. Nil means NewMemberID.
	NewID func() domain.MemberID
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{SkipDuplicates: true, Key: DuplicateByName}
}

type ImportResult struct {
	Added   []domain.Member `json:"added"`
	Skipped int             `json:"skipped"`
}
