package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"
)

func TestSorteioError_Error(t *testing.T) {
	err := &SorteioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "arquivo não encontrado",
	}

	expected := "NOT_FOUND: arquivo não encontrado"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *SorteioError
		code   ErrorCode
		status int
	}{
		{"not found", NewNotFound("/tmp/x.xlsx"), ErrNotFound, 404},
		{"permission", NewPermissionDenied("sem permissão", "/tmp/x.xlsx", nil), ErrPermissionDenied, 403},
		{"format", NewFormat("não é um Excel válido", nil), ErrFormat, 415},
		{"precondition", NewPrecondition("carregue um Excel primeiro"), ErrPreconditionFailed, 412},
		{"range", NewOutOfRange("quantidade", 0, 1, 5), ErrOutOfRange, 400},
		{"empty set", NewEmptySet("VIP"), ErrEmptySet, 404},
		{"io", NewIO("falha ao exportar", fmt.Errorf("disk full")), ErrIO, 500},
		{"corrupt", NewCorruptState("/tmp/h.json", nil), ErrCorruptState, 500},
		{"invalid", NewInvalidRequest("bad"), ErrInvalidRequest, 400},
		{"internal", NewInternal(fmt.Errorf("boom")), ErrInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
			if tt.err.Message == "" {
				t.Error("Message should not be empty")
			}
		})
	}
}

func TestNewOutOfRange_Details(t *testing.T) {
	err := NewOutOfRange("quantidade", 7, 1, 5)

	if err.Details["value"] != 7 {
		t.Errorf("Details[value] = %v, want 7", err.Details["value"])
	}
	if err.Details["min"] != 1 || err.Details["max"] != 5 {
		t.Errorf("Details = %v, want min=1 max=5", err.Details)
	}
}

func TestNewEmptySet_Details(t *testing.T) {
	err := NewEmptySet("VIP")

	if err.Details["category"] != "VIP" {
		t.Errorf("Details[category] = %v, want %q", err.Details["category"], "VIP")
	}
}

func TestUnwrap(t *testing.T) {
	err := NewPermissionDenied("sem permissão", "/x", os.ErrPermission)
	if !stderrors.Is(err, os.ErrPermission) {
		t.Error("errors.Is(err, os.ErrPermission) = false, want true")
	}
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrFormat) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for plain error")
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", NewEmptySet("VIP"))
		if !Is(wrapped, ErrEmptySet) {
			t.Error("Is() = false, want true for wrapped SorteioError")
		}
	})
}

func TestAs(t *testing.T) {
	if got := As(NewFormat("x", nil)); got.Code != ErrFormat {
		t.Errorf("As().Code = %q, want %q", got.Code, ErrFormat)
	}
	if got := As(fmt.Errorf("plain")); got.Code != ErrInternal {
		t.Errorf("As().Code = %q, want %q", got.Code, ErrInternal)
	}
}
