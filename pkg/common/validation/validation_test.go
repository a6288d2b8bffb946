package validation

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/vnykmshr/goprim/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "count", tt.value)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNonNegativeDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"zero", 0, false},
		{"positive", time.Second, false},
		{"negative", -time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegativeDuration("test", "timeout", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("got err=%v, wantError=%v", err, tt.wantError)
			}
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"non-nil int", 123, false},
		{"non-nil pointer", new(int), false},
		{"nil value", nil, true},
		{"nil pointer", (*int)(nil), false}, // typed nil is not nil interface
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotNil("test", "config", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("got err=%v, wantError=%v", err, tt.wantError)
			}
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"non-empty string", "value", false},
		{"whitespace", " ", false}, // Whitespace is not empty
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotEmpty("test", "name", tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("got err=%v, wantError=%v", err, tt.wantError)
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidatePositive("workerpool", "WorkerCount", -5)
	if err == nil {
		t.Fatal("expected error")
	}

	var valErr *errors.ValidationError
	if !stderrors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Module != "workerpool" || valErr.Field != "WorkerCount" {
		t.Errorf("unexpected module/field: %s/%s", valErr.Module, valErr.Field)
	}
	if valErr.Hint == "" {
		t.Error("expected a hint")
	}
	if !stderrors.Is(err, errors.ErrInvalidConfiguration) {
		t.Error("validation errors should match ErrInvalidConfiguration")
	}
}
