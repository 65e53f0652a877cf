package validation

import (
	"testing"
	"unicode/utf8"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "owner+tag@acme.example", "x_y.z@sub.domain.org"}
	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "plain", "@no-local.test", "spaces in@x.test", "trailing@dot."}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = true, want false", s)
		}
	}
}

func TestIsValidCode(t *testing.T) {
	valid := []string{"acme", "acme2", "north-shore-plumbing", "a1b"}
	for _, s := range valid {
		if !IsValidCode(s) {
			t.Errorf("IsValidCode(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "ab", "-acme", "acme-", "Acme", "has space", "under_score"}
	for _, s := range invalid {
		if IsValidCode(s) {
			t.Errorf("IsValidCode(%q) = true, want false", s)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://cal.example/acme") {
		t.Error("https URL rejected")
	}
	if IsValidURL("ftp://example.com") {
		t.Error("ftp URL accepted")
	}
	if IsValidURL("not a url") {
		t.Error("garbage accepted")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 100); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Errorf("got %q, want truncated", got)
	}
	if got := SanitizeString("nul\x00byte", 100); got != "nulbyte" {
		t.Errorf("got %q, want null byte stripped", got)
	}
	// Truncation must not split a multi-byte rune
	if got := SanitizeString("ééé", 5); got != "éé" {
		t.Errorf("got %q, want %q", got, "éé")
	}
	if got := SanitizeString("日本語テスト", 7); !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
}
