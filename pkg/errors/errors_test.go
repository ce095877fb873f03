package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeDegenerateRect, "source rect %s has no area", "0,0,0,100")
	want := "DEGENERATE_RECT: source rect 0,0,0,100 has no area"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeGeneration, cause, "generate preview")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if GetCode(err) != ErrCodeGeneration {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeGeneration)
	}
}

func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	inner := New(ErrCodeMissingPixels, "no buffer for layer %q", "hero/photo")
	outer := fmt.Errorf("composite: %w", inner)

	if !Is(outer, ErrCodeMissingPixels) {
		t.Error("Is should find the code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeMissingLayer) {
		t.Error("Is should not match a different code")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "target rect is required")
	if UserMessage(err) != "target rect is required" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}

	plain := stderrors.New("plain error")
	if UserMessage(plain) != "plain error" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestIsPrecondition(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeDegenerateRect, true},
		{ErrCodeInvalidInput, true},
		{ErrCodeInvalidLayerID, true},
		{ErrCodeMissingLayer, false},
		{ErrCodeMissingPixels, false},
		{ErrCodeGeneration, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsPrecondition(err); got != tt.want {
				t.Errorf("IsPrecondition(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
