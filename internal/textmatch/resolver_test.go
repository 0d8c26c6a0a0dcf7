package textmatch

import (
	"testing"

	"github.com/google/uuid"

	"github.com/stocksync/stocksync/internal/domain"
)

func orgNamed(name string) domain.Organization {
	return domain.Organization{ID: uuid.New(), Name: name}
}

func TestFindBestMatchExactName(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	acme := orgNamed("Acme Corp")

	match := resolver.FindBestMatch("Acme Corp", []domain.Organization{acme})
	if match == nil {
		t.Fatalf("expected a match")
	}
	if match.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", match.Confidence)
	}
	if match.MatchType != domain.MatchTypeExact {
		t.Fatalf("expected exact match type, got %s", match.MatchType)
	}
	if match.OrganizationID != acme.ID {
		t.Fatalf("matched wrong organization")
	}
}

func TestFindBestMatchSuffixInsensitive(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	orgs := []domain.Organization{orgNamed("Acme Corporation")}

	match := resolver.FindBestMatch("Acme Inc", orgs)
	if match == nil {
		t.Fatalf("expected suffix-normalized names to match")
	}
	if match.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0 after normalization, got %f", match.Confidence)
	}
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	orgs := []domain.Organization{
		orgNamed("Acme Corp"),
		orgNamed("Globex Industries"),
	}

	if match := resolver.FindBestMatch("Zzyx Unrelated", orgs); match != nil {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestFindBestMatchAlias(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	org := orgNamed("International Business Machines")
	org.Aliases = []string{"IBM"}

	match := resolver.FindBestMatch("IBM", []domain.Organization{org})
	if match == nil {
		t.Fatalf("expected alias to resolve")
	}
	if match.MatchType != domain.MatchTypeAlias && match.MatchType != domain.MatchTypeAcronym {
		t.Fatalf("expected alias or acronym match type, got %s", match.MatchType)
	}
	if match.Confidence < 0.6 {
		t.Fatalf("confidence %f below threshold", match.Confidence)
	}
}

func TestFindBestMatchIdentifier(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	org := orgNamed("Initech Global Services")
	org.Identifiers = []string{"initech"}

	match := resolver.FindBestMatch("Initech", []domain.Organization{org})
	if match == nil {
		t.Fatalf("expected identifier containment to resolve")
	}
	if match.Confidence < 0.6 {
		t.Fatalf("confidence %f below threshold", match.Confidence)
	}
}

func TestFindBestMatchFuzzyTypo(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	orgs := []domain.Organization{orgNamed("Acme Widget Supply")}

	match := resolver.FindBestMatch("Acme Widgett Supply", orgs)
	if match == nil {
		t.Fatalf("expected fuzzy match for single-character typo")
	}
	if match.MatchType != domain.MatchTypeFuzzy {
		t.Fatalf("expected fuzzy match type, got %s", match.MatchType)
	}
}

func TestFindAllMatchesRankedDescending(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	orgs := []domain.Organization{
		orgNamed("Acme Corp"),
		orgNamed("Acme Widget Supply"),
		orgNamed("Globex Industries"),
	}

	matches := resolver.FindAllMatches("Acme", orgs)
	if len(matches) < 2 {
		t.Fatalf("expected multiple candidates, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Confidence > matches[i-1].Confidence {
			t.Fatalf("matches not ranked descending at index %d", i)
		}
	}
	if matches[0].MatchedName != "Acme Corp" {
		t.Fatalf("expected Acme Corp to rank first, got %s", matches[0].MatchedName)
	}
}

func TestFindBestMatchEmptyInput(t *testing.T) {
	resolver := NewResolver(DefaultResolverConfig())
	if match := resolver.FindBestMatch("   ", []domain.Organization{orgNamed("Acme Corp")}); match != nil {
		t.Fatalf("expected no match for blank input")
	}
}
