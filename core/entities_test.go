package core

import "testing"

func TestValidateNameLength(t *testing.T) {
	if err := ValidateNameLength("Notch"); err != nil {
		t.Fatalf("expected a 5-byte name to pass, got %v", err)
	}

	ok25 := "abcdefghijklmnopqrstuvwxy" // exactly 25 bytes
	if len(ok25) != 25 {
		t.Fatalf("test fixture wrong length: %d", len(ok25))
	}
	if err := ValidateNameLength(ok25); err != nil {
		t.Fatalf("expected a 25-byte name to pass, got %v", err)
	}

	tooLong := ok25 + "z" // 26 bytes
	err := ValidateNameLength(tooLong)
	if err == nil {
		t.Fatal("expected a 26-byte name to be rejected")
	}
	e, ok := AsError(err)
	if !ok || e.Kind != KindInvalidInput {
		t.Fatalf("expected KindInvalidInput, got %v", err)
	}
}
