package rut

// Package rut validates and formats Chilean RUT identifiers
// (rol único tributario), including the mod-11 check digit.

import (
	"regexp"
	"strconv"
	"strings"
)

var rutPattern = regexp.MustCompile(`^[0-9]+-[0-9kK]$`)

// CheckDigit computes the mod-11 verification digit for the numeric body of
// a RUT. It returns "0"-"9" or "k".
func CheckDigit(body string) string {
	sum := 1
	mul := 0
	n, err := strconv.Atoi(body)
	if err != nil || n <= 0 {
		return ""
	}
	for ; n > 0; n /= 10 {
		sum = (sum + n%10*(9-mul%6)) % 11
		mul++
	}
	if sum == 0 {
		return "k"
	}
	return strconv.Itoa(sum - 1)
}

// Valid reports whether the given RUT, in "body-dv" form (dots optional),
// has a well-formed shape and a correct check digit.
func Valid(rut string) bool {
	cleaned := strings.ReplaceAll(rut, ".", "")
	if !rutPattern.MatchString(cleaned) {
		return false
	}
	parts := strings.SplitN(cleaned, "-", 2)
	dv := strings.ToLower(parts[1])
	return CheckDigit(parts[0]) == dv
}

// Normalize strips dots and upper-cases the check digit, returning the
// canonical "body-DV" form. Input that is not a valid RUT is returned
// unchanged.
func Normalize(rut string) string {
	if !Valid(rut) {
		return rut
	}
	cleaned := strings.ReplaceAll(rut, ".", "")
	parts := strings.SplitN(cleaned, "-", 2)
	return parts[0] + "-" + strings.ToUpper(parts[1])
}

// Format renders a RUT body and check digit with thousands separators, e.g.
// "12345678-5" becomes "12.345.678-5". Invalid input is returned unchanged.
func Format(rut string) string {
	if !Valid(rut) {
		return rut
	}
	cleaned := strings.ReplaceAll(rut, ".", "")
	parts := strings.SplitN(cleaned, "-", 2)
	body := parts[0]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String() + "-" + strings.ToUpper(parts[1])
}
