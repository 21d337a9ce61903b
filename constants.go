package wfq

import "github.com/ehrlich-b/wfq-sched/internal/constants"

// Re-exported defaults, for callers that want them without reaching into
// internal packages.
const (
	DefaultWeight  = constants.DefaultWeight
	MaxTokenLength = constants.MaxTokenLength
)
