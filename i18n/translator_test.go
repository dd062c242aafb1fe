package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "required field missing" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodePassesThrough(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code passthrough, got %q", msg)
	}
}
