package track

import "testing"

func TestShouldAlert(t *testing.T) {
	tests := []struct {
		name        string
		lastAlerted int
		newScore    int
		want        bool
	}{
		{"first nonzero score fires", 0, 1, true},
		{"zero score never fires", 0, 0, false},
		{"exactly double does not fire", 5, 10, false},
		{"just over double fires", 5, 11, true},
		{"below double does not fire", 5, 9, false},
		{"unchanged score does not fire", 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldAlert(tt.lastAlerted, tt.newScore); got != tt.want {
				t.Errorf("ShouldAlert(%d, %d) = %v, want %v",
					tt.lastAlerted, tt.newScore, got, tt.want)
			}
		})
	}
}
