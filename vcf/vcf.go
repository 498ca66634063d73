// Package vcf serializes final call sets as minimal VCFv4.2.
package vcf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hapcall/variant"
	"github.com/klauspost/compress/gzip"
)

const version = "VCFv4.2"

// PhredQual converts a probability-like confidence in [0, 1] to a phred
// scaled quality, capped at 99.
func PhredQual(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 99
	}
	q := -10 * math.Log10(1-p)
	if q > 99 {
		q = 99
	}
	return q
}

// Write serializes calls to w for one sample.  Heterozygous calls carry a
// phased GT plus their PS phase set; homozygous calls carry an unphased GT
// only.  Calls must already be sorted; contigs lists chromosome names in
// output order for the header.
func Write(w io.Writer, calls []*variant.Variant, sample string, contigs []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "##fileformat=%s\n", version)
	fmt.Fprintf(bw, "##source=bio-hapcall\n")
	for _, c := range contigs {
		fmt.Fprintf(bw, "##contig=<ID=%s>\n", c)
	}
	fmt.Fprintf(bw, "##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n")
	fmt.Fprintf(bw, "##FORMAT=<ID=PS,Number=1,Type=Integer,Description=\"Phase set\">\n")
	fmt.Fprintf(bw, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\t%s\n", sample)
	for _, v := range calls {
		format, value := "GT", v.Genotype.String()
		if v.Het() {
			format = "GT:PS"
			value = fmt.Sprintf("%s:%d", v.Genotype, v.PhaseSet)
		}
		fmt.Fprintf(bw, "%s\t%d\t.\t%s\t%s\t%.1f\tPASS\t.\t%s\t%s\n",
			v.Chrom, v.Pos+1, v.Ref, v.Alt, PhredQual(v.Qual), format, value)
	}
	return bw.Flush()
}

// WriteFile writes calls to path, gzip-compressed when the path ends in
// ".gz".
func WriteFile(ctx context.Context, path string, calls []*variant.Variant, sample string, contigs []string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var w io.Writer = out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(w)
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		w = gz
	}
	return Write(w, calls, sample, contigs)
}
