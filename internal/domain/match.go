package domain

import "github.com/google/uuid"

// MatchType identifies which resolver rule produced the winning confidence.
type MatchType string

const (
	MatchTypeExact      MatchType = "exact"
	MatchTypeFuzzy      MatchType = "fuzzy"
	MatchTypeAlias      MatchType = "alias"
	MatchTypeIdentifier MatchType = "identifier"
	MatchTypeAcronym    MatchType = "acronym"
	MatchTypeKeyword    MatchType = "keyword"
)

// CompanyMatch is the outcome of resolving a free-text company name against
// the organization directory. It is never persisted by the engine.
type CompanyMatch struct {
	OriginalName   string    `json:"original_name"`
	OrganizationID uuid.UUID `json:"organization_id"`
	MatchedName    string    `json:"matched_name"`
	Confidence     float64   `json:"confidence"`
	MatchType      MatchType `json:"match_type"`
}
