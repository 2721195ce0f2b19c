package models

// VerdictSource names the detector that produced a moderation verdict.
type VerdictSource string

const (
	SourceLocalPattern     VerdictSource = "local_pattern"
	SourceRemoteModeration VerdictSource = "remote_moderation"
)

// ModerationVerdict is the outcome of the moderation gate for one message.
type ModerationVerdict struct {
	Flagged     bool          `json:"flagged"`
	MatchedTerm string        `json:"matched_term,omitempty"`
	Source      VerdictSource `json:"source"`
}
