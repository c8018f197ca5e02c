package ebaymedia

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"img2.jpg", "img10.jpg", -1},
		{"img10.jpg", "img2.jpg", 1},
		{"img2.jpg", "img2.jpg", 0},
		{"IMG2.jpg", "img2.jpg", -1},
		{"img2.jpg", "IMG2.jpg", 1},
		{"a.jpg", "b.jpg", -1},
		{"img2.jpg", "img2b.jpg", -1},
		{"img002.jpg", "img2.jpg", -1},
		{"img02.jpg", "img10.jpg", -1},
		{"photo.jpg", "photo1.jpg", -1},
		{"", "a", -1},
		{"10", "9", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NaturalCompare(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestNaturalLessOrdering(t *testing.T) {
	names := []string{
		"IMG_20.jpg",
		"img_3.jpg",
		"img_100.jpg",
		"cover.png",
		"img_1.jpg",
	}
	sort.Slice(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})

	assert.Equal(t, []string{
		"cover.png",
		"img_1.jpg",
		"img_3.jpg",
		"IMG_20.jpg",
		"img_100.jpg",
	}, names)
}

func TestNaturalLessCaseVariantsDeterministic(t *testing.T) {
	// Case variants of the same name must land in the same order no
	// matter how the input was shuffled.
	inputs := [][]string{
		{"IMG2.jpg", "img2.jpg", "Img2.jpg"},
		{"img2.jpg", "Img2.jpg", "IMG2.jpg"},
		{"Img2.jpg", "IMG2.jpg", "img2.jpg"},
	}
	for _, names := range inputs {
		sorted := append([]string(nil), names...)
		sort.Slice(sorted, func(i, j int) bool {
			return NaturalLess(sorted[i], sorted[j])
		})
		assert.Equal(t, []string{"IMG2.jpg", "Img2.jpg", "img2.jpg"}, sorted)
	}
}
