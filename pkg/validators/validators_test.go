package validators_test

import (
	"testing"

	"github.com/plaenen/backoffice/pkg/validators"
	"github.com/stretchr/testify/assert"
)

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"0001", true},
		{"42", true},
		{"", false},
		{"12A4", false},
		{"12.4", false},
		{"-12", false},
		{" 12", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validators.IsNumeric(tc.value), "value %q", tc.value)
	}
}

func TestIsEmail(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"merchant@example.com", true},
		{"first.last+tag@example.co.za", true},
		{"", false},
		{"not-an-email", false},
		{"@example.com", false},
		{"merchant@", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validators.IsEmail(tc.value), "value %q", tc.value)
	}
}
