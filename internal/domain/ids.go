package domain

// MemberID is the opaque identifier of a roster member.
// It is assigned once on creation and never reused.
type MemberID string
