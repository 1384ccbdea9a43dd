package errors

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Abbey Road", false},
		{"unicode", "Björk – Homogenic ℗", false},
		{"tab and newline", "Side A\tSide B\n", false},
		{"empty", "", false},
		{"at limit", strings.Repeat("a", 20), false},

		{"too long", strings.Repeat("a", 21), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"escape", "foo\x1b[31mbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("name", tt.input, 20)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateText(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://a5.mzstatic.com/us/r1000/0/Music/cover.jpg", false},
		{"http", "http://localhost:8080/art.png", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com/a.jpg", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com/a.jpg", true},
		{"no host", "https:///a.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "bold.otf", false},
		{"nested", "fonts/bold.otf", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret", true},
		{"backslash", "fonts\\bold.otf", true},
		{"null byte", "bold\x00.otf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
