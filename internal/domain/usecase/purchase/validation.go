package purchase

import (
	"strings"
	"unicode/utf8"

	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
)

// User id length bounds, counted in characters after trimming
const (
	MinUserIDLength = 3
	MaxUserIDLength = 255
)

// Validation messages
const (
	MsgUserIDNotString = "userId must be a string."
	MsgUserIDEmpty     = "userId must not be empty."
	MsgUserIDTooShort  = "userId must be at least 3 characters."
	MsgUserIDTooLong   = "userId must not exceed 255 characters."
)

// ValidateUserID trims the raw id and checks its length.
// The trimmed id is the one stored and looked up.
func ValidateUserID(raw string) (string, error) {
	userID := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(userID)

	switch {
	case n == 0:
		return "", errs.NewValidationError(MsgUserIDEmpty)
	case n < MinUserIDLength:
		return "", errs.NewValidationError(MsgUserIDTooShort)
	case n > MaxUserIDLength:
		return "", errs.NewValidationError(MsgUserIDTooLong)
	}
	return userID, nil
}
