package session_test

import (
	"strings"
	"testing"

	"github.com/filadex/filadex-server/internal/session"
)

// TestIssueVerifyRoundTrip tests that an issued cookie verifies back to the
// same user id.
func TestIssueVerifyRoundTrip(t *testing.T) {
	m := session.NewManager("test-secret")

	value := m.Issue(42)
	userID, err := m.Verify(value)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user id 42, got %d", userID)
	}
}

// TestVerifyRejectsTamperedUserID tests that changing the embedded user id
// invalidates the signature.
func TestVerifyRejectsTamperedUserID(t *testing.T) {
	m := session.NewManager("test-secret")

	value := m.Issue(42)
	parts := strings.SplitN(value, ":", 2)
	tampered := "1:" + parts[1]

	if _, err := m.Verify(tampered); err == nil {
		t.Error("Expected tampered cookie to be rejected")
	}
}

// TestVerifyRejectsWrongSecret tests that a cookie signed with a different
// secret does not verify.
func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := session.NewManager("secret-a")
	verifier := session.NewManager("secret-b")

	if _, err := verifier.Verify(issuer.Issue(7)); err == nil {
		t.Error("Expected cookie signed with a different secret to be rejected")
	}
}

// TestVerifyRejectsPreviousBoot tests that a restart invalidates every
// previously issued cookie even with the same secret.
func TestVerifyRejectsPreviousBoot(t *testing.T) {
	before := session.NewManager("same-secret")
	value := before.Issue(7)

	// A new manager with the same secret models a server restart.
	after := session.NewManager("same-secret")
	if _, err := after.Verify(value); err == nil {
		t.Error("Expected cookie from a previous boot to be rejected")
	}
}

// TestVerifyRejectsMalformedValues tests garbage cookie values.
func TestVerifyRejectsMalformedValues(t *testing.T) {
	m := session.NewManager("test-secret")

	for _, value := range []string{"", "abc", "1:2", "a:b:c:d"} {
		if _, err := m.Verify(value); err == nil {
			t.Errorf("Expected %q to be rejected", value)
		}
	}
}
