package i18n

import "testing"

func TestTranslator_DefaultAndOtherLanguages(t *testing.T) {
	// default is en
	if msg := T("int_type", nil); msg != "Input should be a valid integer" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ko")
	if msg := T("missing", nil); msg == "Field required" || msg == "" {
		t.Fatalf("expected korean message, got %q", msg)
	}
	// codes without a korean entry fall back to english
	if msg := T("dict_type", nil); msg != "Input should be a valid dictionary" {
		t.Fatalf("expected english fallback, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("int_type", nil); msg == "Input should be a valid integer" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// unknown languages reset to en
	SetLanguage("xx")
	if msg := T("int_type", nil); msg != "Input should be a valid integer" {
		t.Fatalf("expected english message, got %q", msg)
	}
}

func TestTranslator_Placeholders(t *testing.T) {
	msg := T("greater_than", map[string]string{"limit": "0"})
	if msg != "Input should be greater than 0" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if msg := T("missing", nil); msg != "X:missing" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("missing", nil); msg != "Field required" {
		t.Fatalf("nil translator should reset to en, got %q", msg)
	}
}
