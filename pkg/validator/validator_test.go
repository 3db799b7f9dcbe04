package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		fullName string
		password string
		badField string
	}{
		{"valid", "alice", "alice@example.com", "Alice", "Sup3rSecret", ""},
		{"empty username", "", "alice@example.com", "Alice", "Sup3rSecret", "username"},
		{"short username", "a", "alice@example.com", "Alice", "Sup3rSecret", "username"},
		{"username bad chars", "al ice!", "alice@example.com", "Alice", "Sup3rSecret", "username"},
		{"username too long", strings.Repeat("a", 31), "alice@example.com", "Alice", "Sup3rSecret", "username"},
		{"bad email", "alice", "not-an-email", "Alice", "Sup3rSecret", "email"},
		{"empty name", "alice", "alice@example.com", "", "Sup3rSecret", "name"},
		{"short password", "alice", "alice@example.com", "Alice", "Ab1", "password"},
		{"password no upper", "alice", "alice@example.com", "Alice", "sup3rsecret", "password"},
		{"password no digit", "alice", "alice@example.com", "Alice", "SuperSecret", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSignup(tt.username, tt.email, tt.fullName, tt.password)
			if tt.badField == "" {
				assert.False(t, errs.HasErrors(), "expected no errors, got %v", errs)
				return
			}
			assert.Contains(t, errs, tt.badField)
		})
	}
}

func TestValidateProfileUpdate(t *testing.T) {
	empty := ""
	longBio := strings.Repeat("x", 501)
	weak := "weak"

	errs := ValidateProfileUpdate(nil, nil, nil)
	assert.False(t, errs.HasErrors(), "nil fields mean no change")

	errs = ValidateProfileUpdate(&empty, nil, nil)
	assert.Contains(t, errs, "name")

	errs = ValidateProfileUpdate(nil, &longBio, nil)
	assert.Contains(t, errs, "bio")

	errs = ValidateProfileUpdate(nil, nil, &weak)
	assert.Contains(t, errs, "password")
}

func TestValidatePost(t *testing.T) {
	assert.False(t, ValidatePost("hello world").HasErrors())
	assert.Contains(t, ValidatePost("   "), "text")
	assert.Contains(t, ValidatePost(strings.Repeat("x", maxPostLength+1)), "text")
}

func TestValidateComment(t *testing.T) {
	assert.False(t, ValidateComment("nice post").HasErrors())
	assert.Contains(t, ValidateComment(""), "comment")
	assert.Contains(t, ValidateComment(strings.Repeat("x", 1001)), "comment")
}
