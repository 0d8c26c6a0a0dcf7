package textmatch

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsSuffixesAndPunctuation(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  Acme Corp  ", "acme"},
		{"Acme, Inc.", "acme"},
		{"Global Holdings Ltd", "global"},
		{"Tech-Solutions LLC", "tech solutions"},
		{"  Plain   Name ", "plain name"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.input, false); got != tc.expected {
			t.Fatalf("Normalize(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeCaseSensitive(t *testing.T) {
	if got := Normalize("Acme Widgets", true); got != "Acme Widgets" {
		t.Fatalf("expected case preserved, got %q", got)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	first := Normalize("Acme Corp & Sons, Inc.", false)
	second := Normalize("Acme Corp & Sons, Inc.", false)
	if first != second {
		t.Fatalf("normalize not deterministic: %q vs %q", first, second)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("Acme Widget Manufacturing Co")
	expected := []string{"acme", "manufacturing", "widget"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("ExtractKeywords = %v, expected %v", got, expected)
	}
}

func TestExtractKeywordsDropsShortTokens(t *testing.T) {
	got := ExtractKeywords("AB Industrial Supply")
	for _, keyword := range got {
		if len(keyword) <= 2 {
			t.Fatalf("keyword %q should have been dropped", keyword)
		}
	}
}

func TestAcronym(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"International Business Machines", "IBM"},
		{"acme widget", "AW"},
		{"Solo", "S"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Acronym(tc.input); got != tc.expected {
			t.Fatalf("Acronym(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}
