package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"12345678", "5"},
		{"11111111", "1"},
		{"6", "k"},
		{"", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckDigit(tt.body))
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		rut  string
		want bool
	}{
		{"12345678-5", true},
		{"12.345.678-5", true},
		{"11111111-1", true},
		{"6-K", true},
		{"6-k", true},
		{"12345678-9", false},
		{"12345678", false},
		{"", false},
		{"not-a-rut", false},
	}

	for _, tt := range tests {
		t.Run(tt.rut, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.rut))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "12345678-5", Normalize("12.345.678-5"))
	assert.Equal(t, "6-K", Normalize("6-k"))
	// Invalid input passes through untouched.
	assert.Equal(t, "garbage", Normalize("garbage"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.345.678-5", Format("12345678-5"))
	assert.Equal(t, "11.111.111-1", Format("11111111-1"))
	assert.Equal(t, "6-K", Format("6-k"))
	assert.Equal(t, "bad", Format("bad"))
}
