package interval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetMerges(t *testing.T) {
	s, err := NewSet([]Entry{
		{Chrom: "chr1", Start: 100, End: 200},
		{Chrom: "chr1", Start: 150, End: 250},
		{Chrom: "chr1", Start: 250, End: 300}, // abuts the previous union
		{Chrom: "chr1", Start: 400, End: 500},
		{Chrom: "chr2", Start: 0, End: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Chrom: "chr1", Start: 100, End: 300},
		{Chrom: "chr1", Start: 400, End: 500},
		{Chrom: "chr2", Start: 0, End: 50},
	}, s.Entries())
}

func TestNewSetRejectsInvalid(t *testing.T) {
	_, err := NewSet([]Entry{{Chrom: "chr1", Start: 200, End: 200}})
	assert.Error(t, err)
	_, err = NewSet([]Entry{{Chrom: "chr1", Start: -1, End: 200}})
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	s, err := NewSet([]Entry{{Chrom: "chr1", Start: 100, End: 200}})
	require.NoError(t, err)
	assert.False(t, s.Contains("chr1", 99))
	assert.True(t, s.Contains("chr1", 100))
	assert.True(t, s.Contains("chr1", 199))
	assert.False(t, s.Contains("chr1", 200))
	assert.False(t, s.Contains("chr2", 150))
}

func TestOverlaps(t *testing.T) {
	s, err := NewSet([]Entry{{Chrom: "chr1", Start: 100, End: 200}})
	require.NoError(t, err)
	assert.True(t, s.Overlaps("chr1", 150, 160))
	assert.True(t, s.Overlaps("chr1", 50, 101))
	assert.True(t, s.Overlaps("chr1", 199, 300))
	assert.False(t, s.Overlaps("chr1", 200, 300))
	assert.False(t, s.Overlaps("chr1", 0, 100))
}

func TestChromRank(t *testing.T) {
	s, err := NewSet([]Entry{
		{Chrom: "chrX", Start: 0, End: 10},
		{Chrom: "chr1", Start: 0, End: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"chrX", "chr1"}, s.Chroms())
	assert.Equal(t, 0, s.ChromRank("chrX"))
	assert.Equal(t, 1, s.ChromRank("chr1"))
	assert.Equal(t, 2, s.ChromRank("chrM"))
}

func TestNewSetFromBED(t *testing.T) {
	bed := strings.Join([]string{
		"track name=targets",
		"# comment",
		"",
		"chr1\t100\t200\tfeature1\t0\t+",
		"chr1\t150\t250",
		"chr2\t0\t50",
	}, "\n")
	s, err := NewSetFromBED(strings.NewReader(bed))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Chrom: "chr1", Start: 100, End: 250},
		{Chrom: "chr2", Start: 0, End: 50},
	}, s.Entries())
}

func TestNewSetFromBEDErrors(t *testing.T) {
	_, err := NewSetFromBED(strings.NewReader("chr1\t100\n"))
	assert.Error(t, err)
	_, err = NewSetFromBED(strings.NewReader("chr1\tx\t200\n"))
	assert.Error(t, err)
}

func TestParseRegion(t *testing.T) {
	e, err := ParseRegion("chr1:101-200")
	require.NoError(t, err)
	assert.Equal(t, Entry{Chrom: "chr1", Start: 100, End: 200}, e)

	e, err = ParseRegion("chr1:101")
	require.NoError(t, err)
	assert.Equal(t, Entry{Chrom: "chr1", Start: 100, End: 101}, e)

	e, err = ParseRegion("chr1")
	require.NoError(t, err)
	assert.Equal(t, Entry{Chrom: "chr1", Start: 0, End: 1<<31 - 2}, e)

	for _, bad := range []string{"", "chr1:", "chr1:0-10", "chr1:20-10", "chr1:x-10"} {
		_, err = ParseRegion(bad)
		assert.Error(t, err, "region %q", bad)
	}
}
