package upstream

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	cases := map[Kind]string{
		KindUnavailable:   "unavailable",
		KindRateLimited:   "rate_limited",
		KindQuotaExceeded: "quota_exceeded",
		KindAuthInvalid:   "auth_invalid",
		KindAccessDenied:  "access_denied",
		Kind(99):          "unavailable",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q; want %q", k, got, want)
		}
	}
}

func TestError_MessageNeverIncludesCause_WhenStatusKnown(t *testing.T) {
	e := &Error{Kind: KindRateLimited, Op: "search", Status: 429}
	want := "upstream search: rate_limited (status 429)"
	if e.Error() != want {
		t.Fatalf("Error() = %q; want %q", e.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := &Error{Kind: KindUnavailable, Op: "availability", Err: cause}
	if !errors.Is(e, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestKindOf(t *testing.T) {
	e := &Error{Kind: KindQuotaExceeded, Op: "availability", Status: 402}
	wrapped := fmt.Errorf("analyze: %w", e)

	k, ok := KindOf(wrapped)
	if !ok || k != KindQuotaExceeded {
		t.Fatalf("KindOf = %v, %v; want KindQuotaExceeded, true", k, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("KindOf should reject non-upstream errors")
	}
}

func TestIsSystemic(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&Error{Kind: KindRateLimited}, true},
		{&Error{Kind: KindQuotaExceeded}, true},
		{&Error{Kind: KindUnavailable}, false},
		{&Error{Kind: KindAuthInvalid}, false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsSystemic(c.err); got != c.want {
			t.Errorf("IsSystemic(%v) = %v; want %v", c.err, got, c.want)
		}
	}
}
