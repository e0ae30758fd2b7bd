package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"12.3", 1230, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{".50", 50, false},
		{" 7.25 ", 725, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"12.3449", 1234, false},
		{"", 0, true},
		{"-1.00", 0, true},
		{"+1.00", 0, true},
		{"1.2.3", 0, true},
		{"abc", 0, true},
		{"12.3a", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDecimalToCents(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMoney_Units(t *testing.T) {
	if got := (Money{Cents: 153050}).Units(); got != 1530.50 {
		t.Errorf("Units() = %v, want 1530.50", got)
	}
	if got := (Money{Cents: 0}).Units(); got != 0 {
		t.Errorf("Units() = %v, want 0", got)
	}
}
