package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		column string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"c", 2},
		{" A ", 0},
		{"", -1},
		{"1", -1},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, columnIndex(tt.column), "column %q", tt.column)
	}
}

func TestCellAt(t *testing.T) {
	row := []string{"first", "second"}

	assert.Equal(t, "first", cellAt(row, 0))
	assert.Equal(t, "second", cellAt(row, 1))
	assert.Equal(t, "", cellAt(row, 2))
	assert.Equal(t, "", cellAt(row, -1))
}
