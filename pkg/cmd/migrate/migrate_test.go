package migrate

import "testing"

func TestPrepareURLForDB(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgresql://u:p@db/ff1", "postgresql://u:p@db/ff1?sslmode=disable"},
		{"postgresql://u:p@db/ff1?x=1", "postgresql://u:p@db/ff1?x=1&sslmode=disable"},
		{"postgresql://u:p@db/ff1?sslmode=require", "postgresql://u:p@db/ff1?sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := prepareURLForDB(tt.url); got != tt.want {
				t.Errorf("prepareURLForDB() = %v, want %v", got, tt.want)
			}
		})
	}
}
