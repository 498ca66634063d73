package call

import (
	"context"
	"testing"

	"github.com/grailbio/hapcall/interval"
	"github.com/grailbio/hapcall/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixture covers four overlapping regions on chr1 [100, 950):
// [100,450) [350,700) [600,950) [850,950).  The het at 400 is shared by
// regions 0 and 1, the het at 650 by 1 and 2, and the het at 900 by 2 and
// 3, so with every region succeeding the phase set chains across all four.
func pipelineFixture(failStart int) (*Caller, *interval.Set, error) {
	hap0 := map[int]byte{
		130: altBase(130),
		380: altBase(380),
		400: altBase(400),
		650: altBase(650),
		900: altBase(900),
	}
	hap1 := map[int]byte{380: altBase(380)}
	inf := newMutInferrer(hap0, hap1)
	inf.failStart = failStart
	c := testCaller(testOpts, inf)
	targets, err := interval.NewSet([]interval.Entry{{Chrom: "chr1", Start: 100, End: 950}})
	return c, targets, err
}

func positions(calls []*variant.Variant) []int {
	out := make([]int, len(calls))
	for i, v := range calls {
		out[i] = v.Pos
	}
	return out
}

func TestCallEndToEnd(t *testing.T) {
	c, targets, err := pipelineFixture(-1)
	require.NoError(t, err)

	calls, err := c.Call(context.Background(), targets)
	require.NoError(t, err)
	require.Equal(t, []int{130, 380, 400, 650, 900}, positions(calls))

	for _, v := range calls {
		if v.Pos == 380 {
			assert.Equal(t, variant.HomAlt, v.Genotype)
			assert.Equal(t, "1/1", v.Genotype.String())
			continue
		}
		assert.Equal(t, variant.Genotype{1, 0}, v.Genotype, "pos %d", v.Pos)
		assert.Equal(t, "1|0", v.Genotype.String())
		// Overlap hets chain one phase set across all four regions.
		assert.Equal(t, 101, v.PhaseSet, "pos %d", v.Pos)
	}
	// Shared identities surface exactly once, from the earliest region.
	assert.Equal(t, 0, calls[2].Region)
	assert.Equal(t, 1, calls[3].Region)
	assert.Equal(t, 2, calls[4].Region)
}

func TestCallSkipsFailedRegion(t *testing.T) {
	// Step start 450 exists only in region 1, so only region 1 fails.
	c, targets, err := pipelineFixture(450)
	require.NoError(t, err)

	calls, err := c.Call(context.Background(), targets)
	require.NoError(t, err)
	require.Equal(t, []int{130, 380, 400, 650, 900}, positions(calls))

	// 400 falls back to region 0's copy and 650 to region 2's.
	assert.Equal(t, 0, calls[2].Region)
	assert.Equal(t, 2, calls[3].Region)

	// Region 2 shares nothing with region 0, so the phase chain is broken:
	// calls right of the failed region start a fresh phase set.
	for _, v := range calls {
		if !v.Het() {
			continue
		}
		if v.Pos < 450 {
			assert.Equal(t, 101, v.PhaseSet, "pos %d", v.Pos)
		} else {
			assert.Equal(t, 601, v.PhaseSet, "pos %d", v.Pos)
		}
	}
}
