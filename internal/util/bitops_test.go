package util

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		addr      int
		alignment int
		expected  int
	}{
		{addr: 0, alignment: 16, expected: 0},
		{addr: 8, alignment: 16, expected: 16},
		{addr: 16, alignment: 16, expected: 16},
		{addr: 24, alignment: 16, expected: 32},
		{addr: 13, alignment: 8, expected: 16},
		{addr: 1, alignment: 1, expected: 1},
		{addr: 1000, alignment: 64, expected: 1024},
	}

	for _, tt := range tests {
		be.Equal(t, Align(tt.addr, tt.alignment), tt.expected)
	}
}

func TestInt64Ptr(t *testing.T) {
	a := Int64Ptr(-7)
	b := Int64Ptr(-7)
	be.Equal(t, *a, int64(-7))
	be.True(t, a != b)
}
