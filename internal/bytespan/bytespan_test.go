package bytespan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/bytespan"
)

func TestNewNormalizes(t *testing.T) {
	s := bytespan.New(10, 2)
	assert.Equal(t, bytespan.Span{Start: 2, End: 10}, s)
}

func TestRelate(t *testing.T) {
	cases := []struct {
		name string
		a, b bytespan.Span
		want bytespan.Relation
	}{
		{"before", bytespan.New(0, 5), bytespan.New(5, 10), bytespan.Before},
		{"after", bytespan.New(5, 10), bytespan.New(0, 5), bytespan.After},
		{"equal", bytespan.New(2, 4), bytespan.New(2, 4), bytespan.Equal},
		{"inside", bytespan.New(2, 4), bytespan.New(0, 10), bytespan.Inside},
		{"contains", bytespan.New(0, 10), bytespan.New(2, 4), bytespan.Contains},
		{"start-inside", bytespan.New(3, 10), bytespan.New(0, 5), bytespan.StartInside},
		{"end-inside", bytespan.New(0, 5), bytespan.New(3, 10), bytespan.EndInside},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.a.Relate(c.b))
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, bytespan.Inside.Overlaps())
	assert.True(t, bytespan.Contains.Overlaps())
	assert.True(t, bytespan.Equal.Overlaps())
	assert.True(t, bytespan.StartInside.Overlaps())
	assert.True(t, bytespan.EndInside.Overlaps())
	assert.False(t, bytespan.Before.Overlaps())
	assert.False(t, bytespan.After.Overlaps())
}

func TestUnorderedDirection(t *testing.T) {
	u := bytespan.Unordered{Anchor: 10, Head: 2}
	assert.True(t, u.Reversed())
	assert.Equal(t, bytespan.New(2, 10), u.Ordered())

	shifted := u.WithOrdered(bytespan.New(3, 12))
	assert.Equal(t, bytespan.Unordered{Anchor: 12, Head: 3}, shifted)
}

func TestContainsHalfOpen(t *testing.T) {
	s := bytespan.New(2, 5)
	assert.False(t, s.Contains(5))
	assert.True(t, s.Contains(2))
	assert.True(t, s.ContainsInclusive(5))
}
