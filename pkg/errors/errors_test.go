// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/trinity-method/trinity-sdk/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_deployed_error",
			code:    errors.ErrNotDeployed,
			message: "trinity directory not found",
			wantStr: "[NOT_DEPLOYED] trinity directory not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrVersionMismatch, "expected %s, found %s", "2.1.0", "2.0.0")
	if err.Message != "expected 2.1.0, found 2.0.0" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrSync, "sync failed")

		if err.Code != errors.ErrSync {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrSync)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[SYNC] sync failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrRollback, "rollback failed").
		WithDetail("backup", "/root/.trinity-backup-1").
		WithDetail("phase", "Syncing")

	if err.Details["backup"] != "/root/.trinity-backup-1" {
		t.Errorf("WithDetail() backup = %v", err.Details["backup"])
	}
	if got := errors.DetailString(err, "backup"); got != "/root/.trinity-backup-1" {
		t.Errorf("DetailString() = %q", got)
	}
	if got := errors.DetailString(err, "missing"); got != "" {
		t.Errorf("DetailString() for missing key = %q", got)
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrBackup, "copy failed"),
			code:     errors.ErrBackup,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrBackup, "copy failed"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrVerify, "missing"),
			code:     errors.ErrVerify,
			expected: true,
		},
		{
			name:     "non_trinity_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDoubleFaultChain(t *testing.T) {
	original := errors.New(errors.ErrSync, "copy failed")
	rollback := errors.New(errors.ErrSnapshotCorrupt, "digest mismatch")
	fault := errors.Wrap(stderrors.Join(original, rollback), errors.ErrRollback, "rollback failed")

	if got := errors.GetErrorCode(fault); got != errors.ErrRollback {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrRollback)
	}
	if !errors.IsErrorCode(fault, errors.ErrSync) {
		t.Error("double fault should still match the original code")
	}
	if !errors.IsErrorCode(fault, errors.ErrSnapshotCorrupt) {
		t.Error("double fault should match the rollback cause")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "trinity_error",
			err:      errors.New(errors.ErrBackupStale, "stale backup"),
			expected: errors.ErrBackupStale,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	readErr := errors.Wrap(rootCause, errors.ErrVersionSource, "cannot read manifest")
	outer := errors.Wrap(readErr, errors.ErrConfigLoad, "failed to load sdk")

	if !errors.IsErrorCode(outer, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}
	if !errors.IsErrorCode(outer, errors.ErrVersionSource) {
		t.Error("Should find nested ErrVersionSource code")
	}
	if !stderrors.Is(outer, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}
