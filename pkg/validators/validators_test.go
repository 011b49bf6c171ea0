package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want IdentifierKind
	}{
		{"a@b.com", Email},
		{"first.last+tag@mail.example.org", Email},
		{"+8801712345678", Phone},
		{"8801712345678", Phone},
		{"12", Phone},
		{"01712345678", Phone},
		{"0123456789012345", Phone},
		{"", Invalid},
		{"1", Invalid},
		{"+0123", Invalid},
		{"012345678", Invalid},
		{"01234567890123456", Invalid},
		{"a@b", Invalid},
		{"a b@c.com", Invalid},
		{"@b.com", Invalid},
		{"hello", Invalid},
		{"+1234567890123456", Invalid},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.in), "Classify(%q)", c.in)
	}
}

func TestClassify_EmailWinsOverPhone(t *testing.T) {
	// digits-only local part still matches the email shape first
	assert.Equal(t, Email, Classify("0123456789@1.23"))
}

func TestIdentifierValidator(t *testing.T) {
	_, err := IdentifierValidator("")
	assert.ErrorIs(t, err, ErrIdentifierEmpty)

	_, err = IdentifierValidator("nope")
	assert.ErrorIs(t, err, ErrIdentifierInvalid)

	k, err := IdentifierValidator("a@b.com")
	assert.NoError(t, err)
	assert.Equal(t, "email", k.String())
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.NoError(t, PasswordValidator("p"))
	assert.NoError(t, PasswordValidator(strings.Repeat("x", 72)))
}
