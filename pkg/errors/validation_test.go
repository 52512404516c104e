package errors

import "testing"

func TestValidateAssetPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "up/shirt_2_blue.png", false},
		{"valid nested", "body/base/slim.png", false},
		{"valid filename only", "base.png", false},
		{"valid dotted name", "shoes/shoes.v2.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "up/../down", true},
		{"null byte", "up\x00down", true},
		{"backslash", "up\\shirt.png", true},
		{"newline", "up\nshirt.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssetPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateAssetPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://cdn.example.com/up/tee.png", false},
		{"http://localhost:8080/base.png", false},
		{"", true},
		{"ftp://example.com/a.png", true},
		{"file:///etc/passwd", true},
		{"example.com/a.png", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"shirt 2 blue", false},
		{"Jeans", false},
		{"", true},
		{"   ", true},
		{"bad\x01label", true},
		{string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		err := ValidateLabel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
