// errors_test.go — 验证 AppError / Wrap / Wrapf 的行为契约。
package errors

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// TestWrapUnwrap 验证 Wrap 保留原始错误链，errors.Is 和 errors.As 正常工作。
func TestWrapUnwrap(t *testing.T) {
	wrapped := Wrap(ErrRunActive, "Session.Submit", "submit rejected")

	if !errors.Is(wrapped, ErrRunActive) {
		t.Errorf("errors.Is(wrapped, ErrRunActive) = false, want true")
	}
	if errors.Is(wrapped, ErrNoTrace) {
		t.Errorf("errors.Is(wrapped, ErrNoTrace) = true, want false")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatalf("errors.As failed to extract *AppError")
	}
	if appErr.Op != "Session.Submit" {
		t.Errorf("Op = %q, want %q", appErr.Op, "Session.Submit")
	}
	if appErr.Message != "submit rejected" {
		t.Errorf("Message = %q, want %q", appErr.Message, "submit rejected")
	}
}

// TestWrapErrorString 验证 Error() 输出包含 op、message 和 cause。
func TestWrapErrorString(t *testing.T) {
	wrapped := Wrap(io.ErrUnexpectedEOF, "Stream.Next", "read event")

	s := wrapped.Error()
	for _, want := range []string{"Stream.Next", "read event", "unexpected EOF"} {
		if !strings.Contains(s, want) {
			t.Errorf("Error() = %q, missing %q", s, want)
		}
	}
}

// TestWrapfFormat 验证 Wrapf 格式化消息。
func TestWrapfFormat(t *testing.T) {
	wrapped := Wrapf(ErrInvalidInput, "Client.Steer", "trace %s rejected: %d", "tr-1", 409)

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed")
	}
	if !strings.Contains(appErr.Message, "trace tr-1 rejected: 409") {
		t.Errorf("Message = %q, want to contain 'trace tr-1 rejected: 409'", appErr.Message)
	}
}

// TestNewWithoutCause 验证 New 创建无 cause 的错误。
func TestNewWithoutCause(t *testing.T) {
	err := New("Console.Start", "listen failed")
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed")
	}
	if appErr.Err != nil {
		t.Errorf("Err = %v, want nil", appErr.Err)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("Unwrap = %v, want nil", errors.Unwrap(err))
	}
}

// TestDoubleWrap 验证二次包装时 errors.Is 仍能找到最深层哨兵。
func TestDoubleWrap(t *testing.T) {
	inner := Wrap(ErrNoTrace, "Session.Steer", "steer with no target")
	outer := Wrap(inner, "Console.Steer", "steer request failed")

	if !errors.Is(outer, ErrNoTrace) {
		t.Error("errors.Is(outer, ErrNoTrace) = false after double wrap")
	}

	var appErr *AppError
	if !errors.As(outer, &appErr) {
		t.Fatal("errors.As failed on outer")
	}
	if appErr.Op != "Console.Steer" {
		t.Errorf("Op = %q, want Console.Steer", appErr.Op)
	}
}
