package domain

import "testing"

func TestClampBatch(t *testing.T) {
	cases := map[int]int{0: 1000, -5: 1000, 10: 100, 100: 100, 2500: 2500, 5000: 5000, 99999: 5000}
	for in, want := range cases {
		if got := ClampBatch(in); got != want {
			t.Errorf("ClampBatch(%d) = %d, want %d", in, got, want)
		}
	}
}
