package reads

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample(t *testing.T) {
	s := &BAMSource{
		opts: Opts{MaxReads: 5},
		rnd:  rand.New(rand.NewSource(0)),
	}
	recs := make([]*sam.Record, 20)
	byName := make(map[string]bool)
	for i := range recs {
		recs[i] = &sam.Record{Name: string(rune('a' + i)), Pos: i * 10}
		byName[recs[i].Name] = false
	}

	out := s.downsample(recs)
	require.Len(t, out, 5)
	assert.True(t, sort.SliceIsSorted(out, func(i, j int) bool { return out[i].Pos < out[j].Pos }))
	for _, r := range out {
		seen, ok := byName[r.Name]
		require.True(t, ok)
		require.False(t, seen, "read %s returned twice", r.Name)
		byName[r.Name] = true
	}
}

func TestDefaultOptsExcludesNonPrimary(t *testing.T) {
	assert.NotZero(t, DefaultOpts.FlagExclude&sam.Secondary)
	assert.NotZero(t, DefaultOpts.FlagExclude&sam.Duplicate)
	assert.NotZero(t, DefaultOpts.FlagExclude&sam.Supplementary)
	assert.NotZero(t, DefaultOpts.FlagExclude&sam.QCFail)
	assert.Zero(t, DefaultOpts.FlagExclude&sam.Paired)
}
