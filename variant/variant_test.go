package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLess(t *testing.T) {
	assert.True(t, Key{Pos: 100, Ref: "A", Alt: "G"}.Less(Key{Pos: 101, Ref: "A", Alt: "G"}))
	assert.True(t, Key{Pos: 100, Ref: "A", Alt: "G"}.Less(Key{Pos: 100, Ref: "AT", Alt: "A"}))
	assert.True(t, Key{Pos: 100, Ref: "A", Alt: "C"}.Less(Key{Pos: 100, Ref: "A", Alt: "G"}))
	assert.False(t, Key{Pos: 100, Ref: "A", Alt: "G"}.Less(Key{Pos: 100, Ref: "A", Alt: "G"}))
}

func TestGenotype(t *testing.T) {
	het := Genotype{1, 0}
	assert.True(t, het.Het())
	assert.Equal(t, "1|0", het.String())
	assert.Equal(t, Genotype{0, 1}, het.Reversed())
	assert.Equal(t, "0|1", het.Reversed().String())

	assert.False(t, HomAlt.Het())
	assert.Equal(t, "1/1", HomAlt.String())
	assert.Equal(t, HomAlt, HomAlt.Reversed())
}

func TestBucket(t *testing.T) {
	b := Bucket{}
	v1 := &Variant{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "G", Qual: 0.5}
	v2 := &Variant{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "G", Qual: 0.9}
	v3 := &Variant{Chrom: "chr1", Pos: 90, Ref: "C", Alt: "T", Qual: 0.7}
	b.Add(v1)
	b.Add(v2)
	b.Add(v3)

	assert.Equal(t, 2, b.Occurrences(v1.Key()))
	assert.Equal(t, 1, b.Occurrences(v3.Key()))
	assert.Equal(t, 0, b.Occurrences(Key{Pos: 5, Ref: "A", Alt: "T"}))
	assert.Same(t, v2, b.Best(v1.Key()))
	assert.Nil(t, b.Best(Key{Pos: 5, Ref: "A", Alt: "T"}))
	assert.Equal(t, []Key{v3.Key(), v1.Key()}, b.SortedKeys())
}
