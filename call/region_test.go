package call

import (
	"context"
	"testing"

	"github.com/grailbio/hapcall/variant"
	"github.com/grailbio/hapcall/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseRegionZygosity(t *testing.T) {
	c := &Caller{Opts: Opts{MinOccurrences: 1}}
	region := window.Region{Chrom: "chr1", Start: 200, End: 450, Index: 0}
	hap0, hap1 := variant.Bucket{}, variant.Bucket{}
	hap0.Add(mkVar(300, 0.5))
	hap0.Add(mkVar(300, 0.9))
	hap1.Add(mkVar(300, 0.7))
	hap0.Add(mkVar(310, 0.6))
	hap1.Add(mkVar(320, 0.8))

	res := c.collapseRegion(region, hap0, hap1)
	require.Len(t, res.Variants, 3)
	assert.Equal(t, 201, res.PhaseSet)

	hom := res.Variants[mkVar(300, 0).Key()]
	require.NotNil(t, hom)
	assert.Equal(t, variant.HomAlt, hom.Genotype)
	assert.Equal(t, 0.9, hom.Qual)
	assert.Equal(t, 201, hom.PhaseSet)

	het0 := res.Variants[mkVar(310, 0).Key()]
	require.NotNil(t, het0)
	assert.Equal(t, variant.Genotype{1, 0}, het0.Genotype)
	assert.Equal(t, 0, het0.Hap)

	het1 := res.Variants[mkVar(320, 0).Key()]
	require.NotNil(t, het1)
	assert.Equal(t, variant.Genotype{0, 1}, het1.Genotype)
	assert.Equal(t, 1, het1.Hap)
}

func TestCollapseRegionMinOccurrences(t *testing.T) {
	c := &Caller{Opts: Opts{MinOccurrences: 2}}
	region := window.Region{Chrom: "chr1", Start: 200, End: 450}
	hap0, hap1 := variant.Bucket{}, variant.Bucket{}
	hap0.Add(mkVar(300, 0.5))
	hap0.Add(mkVar(300, 0.9))
	hap0.Add(mkVar(310, 0.6))

	res := c.collapseRegion(region, hap0, hap1)
	require.Len(t, res.Variants, 1)
	assert.NotNil(t, res.Variants[mkVar(300, 0).Key()])
}

func TestAggregateRegion(t *testing.T) {
	inf := newMutInferrer(map[int]byte{400: altBase(400)}, nil)
	c := testCaller(testOpts, inf)
	region := window.Region{Chrom: "chr1", Start: 300, End: 550, Index: 0}

	res, err := c.AggregateRegion(context.Background(), region)
	require.NoError(t, err)
	require.Len(t, res.Variants, 1)
	v := res.Variants[mkVar(400, 0).Key()]
	require.NotNil(t, v)
	assert.Equal(t, variant.Genotype{1, 0}, v.Genotype)
	assert.Equal(t, 301, v.PhaseSet)
	assert.Equal(t, 0, v.Hap)
}

func TestAggregateRegionAllStepsShallow(t *testing.T) {
	c := testCaller(testOpts, newMutInferrer(map[int]byte{400: altBase(400)}, nil))
	c.Opts.MinReads = 5
	c.Reads = &fakeReads{n: 2}
	region := window.Region{Chrom: "chr1", Start: 300, End: 550}

	res, err := c.AggregateRegion(context.Background(), region)
	require.NoError(t, err)
	assert.Empty(t, res.Variants)
}

func TestAggregateRegionAbortsOnShapeMismatch(t *testing.T) {
	c := testCaller(testOpts, newMutInferrer(nil, nil))
	c.Enc = &fakeEnc{widthDelta: 2}
	region := window.Region{Chrom: "chr1", Start: 300, End: 550}

	_, err := c.AggregateRegion(context.Background(), region)
	assert.True(t, IsShapeMismatch(err))
}
