// Package validators provides small input validation helpers shared by the
// domain aggregates.
package validators

import "github.com/asaskevich/govalidator"

// IsNumeric reports whether value is non-empty and consists solely of digits.
// Transaction numbers must satisfy this.
func IsNumeric(value string) bool {
	return value != "" && govalidator.IsNumeric(value)
}

// IsEmail reports whether value is a well-formed email address.
func IsEmail(value string) bool {
	return govalidator.IsEmail(value)
}
