package gnu

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"1.0", "1.0", 0},
		{"0.53.2", "0.53.2", 0},
		{"0.53.2", "0.53.10", -1},
		{"1.3.0", "0.53.2", 1},
		{"0.100.0", "0.53.2", 1},
		{"23.11", "23.11.1", -1},
		{"1.0~rc1", "1.0", -1},
		{"1.0a", "1.0", 1},
		{"1.0a", "1.0+", -1},
		{"007", "7", 0},
		{"", "0", 0},
		{"", "1", -1},
	}
	for _, tt := range tests {
		got := Compare(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
		if back := Compare(tt.b, tt.a); sign(back) != -tt.want {
			t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.b, tt.a, back, -tt.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	if !AtLeast("1.3.0", "0.53.2") {
		t.Error("AtLeast(1.3.0, 0.53.2) = false")
	}
	if !AtLeast("0.53.2", "0.53.2") {
		t.Error("AtLeast(0.53.2, 0.53.2) = false")
	}
	if AtLeast("0.49.2", "0.53.2") {
		t.Error("AtLeast(0.49.2, 0.53.2) = true")
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
