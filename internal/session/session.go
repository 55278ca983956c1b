package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued on login.
const CookieName = "filadex_session"

// Manager issues and verifies session cookie values of the form
//
//	<userID>:<bootID>:<hex hmac-sha256(secret, userID:bootID)>
//
// The boot id is generated once per process start, so every session is
// invalidated on restart. The HMAC keeps the cookie tamper-proof; a client
// cannot mint a cookie for another user id.
type Manager struct {
	secret []byte
	bootID string
}

// NewManager creates a Manager with a fresh boot id.
func NewManager(secret string) *Manager {
	return &Manager{
		secret: []byte(secret),
		bootID: uuid.NewString(),
	}
}

// BootID returns the process boot nonce.
func (m *Manager) BootID() string {
	return m.bootID
}

// Issue builds a signed cookie value for the given user id.
func (m *Manager) Issue(userID uint) string {
	payload := fmt.Sprintf("%d:%s", userID, m.bootID)
	return payload + ":" + m.sign(payload)
}

// Verify parses a cookie value and returns the embedded user id. It fails
// when the signature does not verify or the boot id is not the current one.
func (m *Manager) Verify(value string) (uint, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed session value")
	}

	payload := parts[0] + ":" + parts[1]
	if !hmac.Equal([]byte(m.sign(payload)), []byte(parts[2])) {
		return 0, fmt.Errorf("session signature mismatch")
	}

	if parts[1] != m.bootID {
		return 0, fmt.Errorf("session issued by a previous server instance")
	}

	userID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in session: %w", err)
	}

	return uint(userID), nil
}

func (m *Manager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
