package utils

import "testing"

func TestCheckClientVersion(t *testing.T) {
	tests := []struct {
		toCheck  string
		required string
		want     bool
	}{
		{"v0.3.0", "v0.3.0", true},
		{"0.3.1", "v0.3.0", true},
		{"v1.0.0", "0.3.0", true},
		{"v0.2.9", "v0.3.0", false},
		{"v0.3.0-rc1", "v0.3.0", false},
		{"garbage", "v0.3.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.toCheck, func(t *testing.T) {
			if got := CheckClientVersion(tt.toCheck, tt.required); got != tt.want {
				t.Errorf("CheckClientVersion(%q, %q) = %v, want %v",
					tt.toCheck, tt.required, got, tt.want)
			}
		})
	}
}
