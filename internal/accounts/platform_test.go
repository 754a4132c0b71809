package accounts

import "testing"

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"Windows", PlatformWindows, false},
		{"macos", PlatformMacOS, false},
		{"IOS15", PlatformIOS15, false},
		{"2", PlatformAndroid, false},
		{"5", 0, true},
		{"Linux", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlatform(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMaskedToken(t *testing.T) {
	a := &AccountConfig{AuthorizationToken: "abcdefghijklmnop"}
	if got := a.MaskedToken(); got != "abcd********mnop" {
		t.Errorf("Unexpected mask: %s", got)
	}

	short := &AccountConfig{AuthorizationToken: "abc"}
	if got := short.MaskedToken(); got != "***" {
		t.Errorf("Unexpected mask for short token: %s", got)
	}
}
