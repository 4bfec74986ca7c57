package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    uint
		wantW, wantH uint
	}{
		{"landscape", 4032, 3024, 2048, 2048, 1536},
		{"portrait", 3024, 4032, 2048, 1536, 2048},
		{"small unchanged", 800, 600, 2048, 800, 600},
		{"exact edge", 2048, 1000, 2048, 2048, 1000},
		{"square", 5000, 5000, 2048, 2048, 2048},
		{"thin strip", 10000, 1, 2048, 2048, 1},
		{"odd ratio", 3000, 1999, 2048, 2048, 1364},
		{"no max", 4032, 3024, 0, 4032, 3024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestFitKeepsRatio(t *testing.T) {
	for _, sz := range [][2]uint{{4032, 3024}, {6000, 4000}, {2049, 17}, {12345, 6789}, {3333, 4444}} {
		w, h := Fit(sz[0], sz[1], 2048)
		long := w
		if h > long {
			long = h
		}
		assert.Equal(t, uint(2048), long, "%v", sz)

		// each side within one pixel of the exact scaled value
		m := Modifier(sz[0], sz[1], 2048)
		assert.InDelta(t, float64(sz[0])*m, float64(w), 1.0)
		assert.InDelta(t, float64(sz[1])*m, float64(h), 1.0)
	}
}

func TestModifier(t *testing.T) {
	assert.InDelta(t, 0.50794, Modifier(4032, 3024, 2048), 0.00001)
	assert.Equal(t, 1.0, Modifier(800, 600, 2048))
	assert.Equal(t, 1.0, Modifier(0, 0, 2048))
}

func TestKindText(t *testing.T) {
	b, err := DirectoryCreate.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "DirectoryCreate", string(b))

	var k Kind
	assert.NoError(t, k.UnmarshalText(b))
	assert.Equal(t, DirectoryCreate, k)
	assert.Error(t, k.UnmarshalText([]byte("Nope")))
}
