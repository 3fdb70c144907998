package validation

import (
	"regexp"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// whitespace mirrors the ECMAScript \s class, which is wider than RE2's ASCII \s.
const whitespace = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

// Regex patterns
var (
	// local@domain.tld: no whitespace or extra @, a dot somewhere after the @
	trialEmailRegex = regexp.MustCompile(`^[^@` + whitespace + `]+@[^@` + whitespace + `]+\.[^@` + whitespace + `]+$`)
)

// MaxEmailLength is the practical upper bound for an email address, counted
// in UTF-16 code units as browsers count string length.
const MaxEmailLength = 254

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("trial_email", TrialEmail)
	_ = v.RegisterValidation("trial_email_length", TrialEmailLength)
}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// TrialEmail checks the syntactic shape of an email address.
func TrialEmail(fl validator.FieldLevel) bool {
	return IsTrialEmail(fl.Field().String())
}

func IsTrialEmail(val string) bool {
	return trialEmailRegex.MatchString(val)
}

// TrialEmailLength rejects addresses longer than MaxEmailLength.
func TrialEmailLength(fl validator.FieldLevel) bool {
	return EmailLength(fl.Field().String()) <= MaxEmailLength
}

// EmailLength counts UTF-16 code units, so characters outside the BMP count twice.
func EmailLength(val string) int {
	return len(utf16.Encode([]rune(val)))
}
