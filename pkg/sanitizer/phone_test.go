package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uk international", "+44 7911 123456", "+447911123456"},
		{"uk national falls back to home region", "07911 123456", "+447911123456"},
		{"irish international", "+353 85 123 4567", "+353851234567"},
		{"empty", "", ""},
		{"garbage", "not a phone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("+44 7911 123456")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("not idempotent: %q -> %q", once, twice)
	}
}
