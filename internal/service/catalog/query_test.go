package catalog

import "testing"

func TestParseQueryTitleAndYear(t *testing.T) {
	title, year := ParseQuery("Inception 2010")
	if title != "Inception" || year != "2010" {
		t.Fatalf("got (%q, %q)", title, year)
	}
}

func TestParseQueryTitleOnly(t *testing.T) {
	title, year := ParseQuery("Inception")
	if title != "Inception" {
		t.Fatalf("unexpected title %q", title)
	}
	if year != "" {
		t.Fatalf("expected no year, got %q", year)
	}
}

func TestParseQueryOnlyTrailingYearConsumed(t *testing.T) {
	title, year := ParseQuery("Top 5 2020 2020")
	if title != "Top 5 2020" || year != "2020" {
		t.Fatalf("got (%q, %q)", title, year)
	}
}

func TestParseQueryBareYearIsTitle(t *testing.T) {
	title, year := ParseQuery("2020")
	if title != "2020" || year != "" {
		t.Fatalf("got (%q, %q)", title, year)
	}
}
