package locale

import "testing"

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		phone string
		code  string
	}{
		{"+447911123456", "GB"},
		{"447911123456", "GB"},
		{"+353851234567", "IE"},
		{"07911123456", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			c := InferCountryFromPhone(tt.phone)
			if tt.code == "" {
				if c != nil {
					t.Errorf("expected no match, got %s", c.Code)
				}
				return
			}
			if c == nil || c.Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, c)
			}
		})
	}
}
