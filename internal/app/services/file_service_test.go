package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "logo.png", "logo.png"},
		{"strips directories", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\ada\cv.pdf`, "cv.pdf"},
		{"empty", "", "file"},
		{"invalid utf8 dropped", "bad\xffname.png", "badname.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanFileName(tt.in))
		})
	}
}

func TestCleanFileName_TruncatesOnRuneBoundary(t *testing.T) {
	got := cleanFileName(strings.Repeat("é", 200) + ".png")

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxFileNameBytes)
	assert.True(t, strings.HasSuffix(got, ".png"))
	assert.Equal(t, strings.Repeat("é", 125)+".png", got)
}
