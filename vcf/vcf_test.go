package vcf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/hapcall/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhredQual(t *testing.T) {
	assert.Equal(t, 0.0, PhredQual(0))
	assert.Equal(t, 0.0, PhredQual(-1))
	assert.InDelta(t, 10.0, PhredQual(0.9), 1e-9)
	assert.InDelta(t, 20.0, PhredQual(0.99), 1e-9)
	assert.Equal(t, 99.0, PhredQual(1))
	assert.Equal(t, 99.0, PhredQual(0.99999999999))
}

func TestWrite(t *testing.T) {
	calls := []*variant.Variant{
		{Chrom: "chr1", Pos: 99, Ref: "A", Alt: "G", Qual: 0.9, Genotype: variant.Genotype{1, 0}, PhaseSet: 101},
		{Chrom: "chr1", Pos: 149, Ref: "CT", Alt: "C", Qual: 1, Genotype: variant.HomAlt, PhaseSet: 101},
		{Chrom: "chr2", Pos: 9, Ref: "T", Alt: "TAA", Qual: 0, Genotype: variant.Genotype{0, 1}, PhaseSet: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, calls, "NA12878", []string{"chr1", "chr2"}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)

	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
	assert.Equal(t, "##contig=<ID=chr1>", lines[2])
	assert.Equal(t, "##contig=<ID=chr2>", lines[3])
	assert.Equal(t, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878", lines[6])

	assert.Equal(t, "chr1\t100\t.\tA\tG\t10.0\tPASS\t.\tGT:PS\t1|0:101", lines[7])
	assert.Equal(t, "chr1\t150\t.\tCT\tC\t99.0\tPASS\t.\tGT\t1/1", lines[8])
	assert.Equal(t, "chr2\t10\t.\tT\tTAA\t0.0\tPASS\t.\tGT:PS\t0|1:1", lines[9])
}
