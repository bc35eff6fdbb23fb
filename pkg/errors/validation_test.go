package errors

import (
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "app", false},
		{"valid with slash", "github.com/a/b", false},
		{"valid unicode", "nœud", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/graph.png", false},
		{"absolute", "/tmp/graph.svg", false},

		{"empty", "", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	if v.Err() != nil {
		t.Fatal("empty ValidationError should yield nil")
	}

	v.ValidateNonNegative("simulation.warmup_ticks", -1)
	v.ValidateFraction("simulation.velocity_decay", 1.5)
	v.ValidateFraction("simulation.alpha_decay", 0.5)

	if len(v.Fields) != 2 {
		t.Fatalf("Fields = %d, want 2", len(v.Fields))
	}
	err := v.Err()
	if !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("Err() code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
	}
	want := "simulation.warmup_ticks: must not be negative (got -1); simulation.velocity_decay: must be between 0 and 1 (got 1.5)"
	if v.Error() != want {
		t.Errorf("Error() = %q, want %q", v.Error(), want)
	}
}
