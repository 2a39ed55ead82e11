package util

import "testing"

func TestRounddown(t *testing.T) {
	cases := []struct{ v, b, want int }{
		{10, 4, 8},
		{8, 4, 8},
		{0, 4, 0},
		{4095, 4096, 0},
	}
	for _, c := range cases {
		if got := Rounddown(c.v, c.b); got != c.want {
			t.Errorf("Rounddown(%d, %d) = %d, want %d", c.v, c.b, got, c.want)
		}
	}
}

func TestRoundup(t *testing.T) {
	cases := []struct{ v, b, want int }{
		{10, 4, 12},
		{8, 4, 8},
		{0, 4, 0},
		{1, 4096, 4096},
	}
	for _, c := range cases {
		if got := Roundup(c.v, c.b); got != c.want {
			t.Errorf("Roundup(%d, %d) = %d, want %d", c.v, c.b, got, c.want)
		}
	}
}
