package input

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"up", KeyUp},
		{"SPACE", KeySpace},
		{"escape", KeyEscape},
		{"esc", KeyEscape},
		{"enter", KeySpace},
		{" ", KeySpace},
		{"3", Key3},
		{"F10", KeyF10},
		{"  m ", KeyM},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKey_Unknown(t *testing.T) {
	if _, err := ParseKey("ctrl+alt+del"); err == nil {
		t.Error("expected error")
	}
}

func TestKeyString_RoundTrip(t *testing.T) {
	for k := KeyUp; k <= KeyF11; k++ {
		got, err := ParseKey(k.String())
		if err != nil || got != k {
			t.Errorf("round trip %v: got %v, %v", k, got, err)
		}
	}
}

func TestDigit(t *testing.T) {
	if Key1.Digit() != 1 || Key9.Digit() != 9 || KeySpace.Digit() != 0 {
		t.Error("Digit mismatch")
	}
	if DigitKey(3) != Key3 || DigitKey(0) != KeyNone || DigitKey(10) != KeyNone {
		t.Error("DigitKey mismatch")
	}
}

func TestFunction(t *testing.T) {
	if KeyF1.Function() != 1 || KeyF11.Function() != 11 || KeyR.Function() != 0 {
		t.Error("Function mismatch")
	}
}

func TestArrow(t *testing.T) {
	for _, k := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight} {
		if !k.Arrow() {
			t.Errorf("%v should be an arrow", k)
		}
	}
	if KeySpace.Arrow() {
		t.Error("space is not an arrow")
	}
}
