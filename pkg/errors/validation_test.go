package errors

import "testing"

func TestValidateLayerID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "bg"},
		{name: "path-like", id: "hero/photo"},
		{name: "synthetic", id: "synthetic/fill-0"},
		{name: "empty", id: "", wantErr: true},
		{name: "traversal", id: "../etc/passwd", wantErr: true},
		{name: "double slash", id: "a//b", wantErr: true},
		{name: "backslash", id: "a\\b", wantErr: true},
		{name: "control char", id: "a\x01b", wantErr: true},
		{name: "null byte", id: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayerID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayerID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlotID(t *testing.T) {
	if err := ValidateSlotID("header-hero"); err != nil {
		t.Errorf("valid slot rejected: %v", err)
	}
	if err := ValidateSlotID(""); err == nil {
		t.Error("empty slot accepted")
	}
	if err := ValidateSlotID("a b"); err == nil {
		t.Error("slot with whitespace accepted")
	}
	if err := ValidateSlotID("a/../b"); err == nil {
		t.Error("slot with traversal accepted")
	}
	// Failures surface under the generic input code, not the layer id code.
	if err := ValidateSlotID(""); GetCode(err) != ErrCodeInvalidInput {
		t.Errorf("slot error code = %q, want %q", GetCode(err), ErrCodeInvalidInput)
	}
}
