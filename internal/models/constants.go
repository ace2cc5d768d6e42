package models

// ============================================================================
// TAG DEFAULTS
// ============================================================================

// DefaultTagColor is used when a tag is created without a color
const DefaultTagColor = "#3b82f6"

// UnknownTagName and UnknownTagColor describe a tag id with no matching row
const (
	UnknownTagName  = "Unknown tag"
	UnknownTagColor = "#6b7280"
)

// ============================================================================
// PIPELINE DEFAULTS
// ============================================================================

// DefaultColumnNames are seeded, in order, for every new account
var DefaultColumnNames = []string{"New Leads", "Qualified", "Visit Scheduled", "Closed"}

// QualifiedColumnMarker identifies the qualified-leads column by name
// (case-insensitive substring match).
const QualifiedColumnMarker = "qualif"

// ============================================================================
// FOLLOW-UP DEFAULTS
// ============================================================================

// DefaultFollowUpCount is the number of follow-up steps seeded per user
const DefaultFollowUpCount = 4

// DefaultFollowUpDelays are the seeded delays in days, indexed by idx-1
var DefaultFollowUpDelays = []int{1, 2, 7, 15}

// DefaultFollowUpMessage is the placeholder message of seeded follow-ups
const DefaultFollowUpMessage = "Edit your custom message"
