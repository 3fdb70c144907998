package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type emailForm struct {
	Email string `validate:"required,trial_email,trial_email_length"`
}

func TestIsTrialEmail(t *testing.T) {
	valid := []string{
		"trader@example.com",
		"a@b.co",
		"first.last+tag@sub.domain.io",
		"x@y.z",
		"a@b.c.d",
		"ünïcode@dömain.de",
	}
	for _, s := range valid {
		assert.True(t, IsTrialEmail(s), s)
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing-at.example.com",
		"no-dot@example",
		"trailing-dot@example.",
		"@example.com",
		"two@@example.com",
		"a@b@c.com",
		"with space@example.com",
		"tab\t@example.com",
		"a@exa mple.com",
		"a@example.com\n",
		"nbsp\u00a0@example.com",
		"a@b.c\u3000",
	}
	for _, s := range invalid {
		assert.False(t, IsTrialEmail(s), "%q", s)
	}
}

func TestTrialEmailValidatorLength(t *testing.T) {
	v := New()

	// 64 + 1 + 185 + 4 = 254
	atLimit := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	assert.Len(t, atLimit, MaxEmailLength)
	assert.NoError(t, v.Struct(emailForm{Email: atLimit}))

	overLimit := "a" + atLimit
	assert.True(t, IsTrialEmail(overLimit), "pattern alone accepts it")
	assert.Error(t, v.Struct(emailForm{Email: overLimit}))
}

func TestTrialEmailLengthCountsUTF16Units(t *testing.T) {
	v := New()

	assert.Equal(t, 2, EmailLength("😀"))
	assert.Equal(t, 1, EmailLength("é"))

	// 127 emoji take 254 units before the domain is added
	tooLong := strings.Repeat("😀", 127) + "@b.co"
	assert.Equal(t, 259, EmailLength(tooLong))
	assert.True(t, IsTrialEmail(tooLong))
	assert.Error(t, v.Struct(emailForm{Email: tooLong}))

	// 124 emoji + "@b.co" = 248 + 5 units
	fits := strings.Repeat("😀", 124) + "@b.co"
	assert.Equal(t, 253, EmailLength(fits))
	assert.NoError(t, v.Struct(emailForm{Email: fits}))

	// accented letters count once each
	accented := strings.Repeat("é", 248) + "@b.co"
	assert.Equal(t, 253, EmailLength(accented))
	assert.NoError(t, v.Struct(emailForm{Email: accented}))
}

func TestTrialEmailValidatorRequired(t *testing.T) {
	v := New()
	assert.Error(t, v.Struct(emailForm{}))
	assert.Error(t, v.Struct(emailForm{Email: "not-an-email"}))
	assert.NoError(t, v.Struct(emailForm{Email: "trader@example.com"}))
}
