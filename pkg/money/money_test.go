package money

import "testing"

func TestAreEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"identical", 25.50, 25.50, true},
		{"within tolerance", 33.33, 33.35, true},
		{"at tolerance boundary", 10.00, 10.05, true},
		{"beyond tolerance", 10.00, 10.06, false},
		{"float drift", 0.1 + 0.2, 0.3, true},
		{"accumulated thirds", 33.33 + 33.33 + 33.34, 100.00, true},
		{"clearly different", 50.00, 49.00, false},
		{"negative amounts", -12.50, -12.50, true},
		{"opposite signs", 0.02, -0.02, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("AreEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAreEqualWithin(t *testing.T) {
	if !AreEqualWithin(1.0000001, 1.0, 0.00001) {
		t.Error("expected values within a tight epsilon to compare equal")
	}
	if AreEqualWithin(1.001, 1.0, 0.00001) {
		t.Error("expected values outside a tight epsilon to compare unequal")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"already two decimals", 12.34, 12.34},
		{"rounds up", 12.346, 12.35},
		{"rounds down", 12.344, 12.34},
		{"negative", -0.006, -0.01},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.amount); got != tt.want {
				t.Errorf("Round(%v) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
