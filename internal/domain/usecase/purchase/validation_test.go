package purchase

import (
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		message  string
	}{
		{"Email", "user@example.com", "user@example.com", ""},
		{"Username", "john123", "john123", ""},
		{"Trimmed", "  alice  ", "alice", ""},
		{"Exactly three characters", "bob", "bob", ""},
		{"Exactly 255 characters", strings.Repeat("a", 255), strings.Repeat("a", 255), ""},
		{"Multibyte counted by character", "日本語", "日本語", ""},
		{"Empty", "", "", MsgUserIDEmpty},
		{"Whitespace only", "   ", "", MsgUserIDEmpty},
		{"Too short", "ab", "", MsgUserIDTooShort},
		{"Too short after trim", " ab ", "", MsgUserIDTooShort},
		{"Too long", strings.Repeat("a", 256), "", MsgUserIDTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := ValidateUserID(tt.input)

			if tt.message == "" {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, userID)
				return
			}

			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.message, errs.MessageOf(err))
			assert.Empty(t, userID)
		})
	}
}
