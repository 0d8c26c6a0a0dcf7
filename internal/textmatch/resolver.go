package textmatch

import (
	"sort"
	"strings"

	"github.com/stocksync/stocksync/internal/domain"
)

// ResolverConfig tunes the weighted rule set used for company resolution.
type ResolverConfig struct {
	MinConfidence   float64
	AliasBonus      float64
	KeywordBonus    float64
	IdentifierScore float64
	AcronymScore    float64
}

// DefaultResolverConfig returns the standard rule weights.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MinConfidence:   0.6,
		AliasBonus:      0.9,
		KeywordBonus:    0.3,
		IdentifierScore: 0.95,
		AcronymScore:    0.8,
	}
}

// Resolver ranks known organizations against free-text company names.
// Resolution is read-only and safe for concurrent use.
type Resolver struct {
	config ResolverConfig
}

// NewResolver creates a resolver with the given rule weights.
func NewResolver(config ResolverConfig) *Resolver {
	if config.MinConfidence <= 0 {
		config.MinConfidence = 0.6
	}
	if config.AliasBonus <= 0 {
		config.AliasBonus = 0.9
	}
	if config.KeywordBonus <= 0 {
		config.KeywordBonus = 0.3
	}
	if config.IdentifierScore <= 0 {
		config.IdentifierScore = 0.95
	}
	if config.AcronymScore <= 0 {
		config.AcronymScore = 0.8
	}
	return &Resolver{config: config}
}

// FindBestMatch returns the highest-confidence candidate for the input name,
// or nil when no organization reaches the configured minimum confidence.
func (r *Resolver) FindBestMatch(inputName string, organizations []domain.Organization) *domain.CompanyMatch {
	matches := r.FindAllMatches(inputName, organizations)
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	if best.Confidence < r.config.MinConfidence {
		return nil
	}
	return &best
}

// FindAllMatches scores every organization against the input name and returns
// candidates with confidence > 0, ranked descending. Intended for
// manual-review workflows; the engine itself only consumes the top candidate.
func (r *Resolver) FindAllMatches(inputName string, organizations []domain.Organization) []domain.CompanyMatch {
	input := Normalize(inputName, false)
	if input == "" {
		return nil
	}

	inputKeywords := ExtractKeywords(inputName)
	inputAcronym := Acronym(inputName)

	matches := make([]domain.CompanyMatch, 0, len(organizations))
	for _, org := range organizations {
		confidence, matchType := r.score(input, inputKeywords, inputAcronym, org)
		if confidence <= 0 {
			continue
		}
		matches = append(matches, domain.CompanyMatch{
			OriginalName:   inputName,
			OrganizationID: org.ID,
			MatchedName:    org.Name,
			Confidence:     confidence,
			MatchType:      matchType,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

func (r *Resolver) score(input string, inputKeywords []string, inputAcronym string, org domain.Organization) (float64, domain.MatchType) {
	orgName := Normalize(org.Name, false)
	if orgName == "" {
		return 0, domain.MatchTypeFuzzy
	}

	// Exact normalized equality wins outright; no penalty applies.
	if input == orgName {
		return 1.0, domain.MatchTypeExact
	}

	best := JaroWinkler(input, orgName)
	matchType := domain.MatchTypeFuzzy

	for _, alias := range org.Aliases {
		normalizedAlias := Normalize(alias, false)
		if normalizedAlias == "" {
			continue
		}
		var aliasScore float64
		if input == normalizedAlias {
			aliasScore = r.config.AliasBonus
		} else {
			aliasScore = JaroWinkler(input, normalizedAlias) * r.config.AliasBonus
		}
		if aliasScore > best {
			best = aliasScore
			matchType = domain.MatchTypeAlias
		}
	}

	for _, identifier := range org.Identifiers {
		token := Normalize(identifier, false)
		if token == "" {
			continue
		}
		if strings.Contains(input, token) || strings.Contains(token, input) {
			if r.config.IdentifierScore > best {
				best = r.config.IdentifierScore
				matchType = domain.MatchTypeIdentifier
			}
			break
		}
	}

	if len(inputAcronym) >= 2 && inputAcronym == Acronym(org.Name) {
		if r.config.AcronymScore > best {
			best = r.config.AcronymScore
			matchType = domain.MatchTypeAcronym
		}
	}

	orgKeywords := org.Keywords
	if len(orgKeywords) == 0 {
		orgKeywords = ExtractKeywords(org.Name)
	}
	if overlap := Jaccard(inputKeywords, orgKeywords) * r.config.KeywordBonus; overlap > best {
		best = overlap
		matchType = domain.MatchTypeKeyword
	}

	best -= lengthPenalty(input, orgName)
	if best < 0 {
		best = 0
	}
	return clamp01(best), matchType
}

// lengthPenalty discourages matches between strings of very different length,
// capped at 0.1.
func lengthPenalty(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := maxInt(la, lb)
	if maxLen == 0 {
		return 0
	}

	diff := la - lb
	if diff < 0 {
		diff = -diff
	}

	penalty := float64(diff) / float64(maxLen) * 0.1
	if penalty > 0.1 {
		penalty = 0.1
	}
	return penalty
}
