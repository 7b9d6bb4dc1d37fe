package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
)

// MaxMessageLength is the longest accepted message body, in characters.
const MaxMessageLength = 5000

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError describes why a submission was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// normalize trims surrounding whitespace from every text field.
func normalize(in model.SubmitInput) model.SubmitInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// Validate checks a normalized submission.
func Validate(in model.SubmitInput) error {
	required := []struct {
		field, value string
	}{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"subject", in.Subject},
		{"message", in.Message},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Reason: "all required fields must be filled in (missing " + r.field + ")"}
		}
	}
	if !ValidEmail(in.Email) {
		return &ValidationError{Field: "email", Reason: "invalid email address"}
	}
	if utf8.RuneCountInString(in.Message) > MaxMessageLength {
		return &ValidationError{Field: "message", Reason: "message must be at most 5000 characters"}
	}
	return nil
}

// ValidEmail reports whether s has the shape local@domain.tld with no whitespace.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
