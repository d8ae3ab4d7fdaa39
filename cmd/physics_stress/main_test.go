package main

import "testing"

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		n, steps int
		ok       bool
	}{
		{0, 200, true},
		{10, 1, true},
		{10, 0, false},
		{10, -5, false},
		{-1, 200, false},
	}
	for _, tt := range tests {
		err := checkFlags(tt.n, tt.steps)
		if (err == nil) != tt.ok {
			t.Errorf("checkFlags(%d, %d): expected ok=%v, got %v", tt.n, tt.steps, tt.ok, err)
		}
	}
}
