package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	phoneRegex = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)

	// RE2 has no lookahead, so the password rule is split in three.
	passwordCharsRegex   = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*]{6,16}$`)
	passwordDigitRegex   = regexp.MustCompile(`[0-9]`)
	passwordSpecialRegex = regexp.MustCompile(`[!@#$%^&*]`)
)

var phoneReplacer = strings.NewReplacer("(", "", ")", "", "-", "")

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsStrongPassword checks 6-16 characters from [a-zA-Z0-9!@#$%^&*] with at
// least one digit and one special character.
func IsStrongPassword(s string) bool {
	return passwordCharsRegex.MatchString(s) &&
		passwordDigitRegex.MatchString(s) &&
		passwordSpecialRegex.MatchString(s)
}

// NormalizePhone strips parentheses and hyphens.
func NormalizePhone(phone string) string {
	return phoneReplacer.Replace(phone)
}

// NormalizeEmail converts email to lowercase for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
