// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
bio-hapcall calls small variants from a BAM by sliding inference windows
across the targeted regions, reconciling the per-window haplotype
predictions, and emitting one phased, deduplicated VCF.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hapcall/align"
	"github.com/grailbio/hapcall/call"
	"github.com/grailbio/hapcall/fasta"
	"github.com/grailbio/hapcall/interval"
	"github.com/grailbio/hapcall/pileup"
	"github.com/grailbio/hapcall/reads"
	"github.com/grailbio/hapcall/vcf"
	"github.com/grailbio/hts/sam"
)

var (
	bedPath        = flag.String("bed", "", "Input BED path restricting calling targets; this xor -region required")
	region         = flag.String("region", "", "Restrict calling to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>; this xor -bed required")
	bamIndexPath   = flag.String("index", "", "Input BAM index path. Defaults to bampath + .bai")
	regionStride   = flag.Int("region-stride", call.DefaultOpts.RegionStride, "Distance between coarse region starts")
	regionOverlap  = flag.Int("region-overlap", call.DefaultOpts.RegionOverlap, "Right-edge overlap between adjacent regions")
	stepWidth      = flag.Int("step-width", call.DefaultOpts.StepWidth, "Fine inference window size")
	stepStride     = flag.Int("step-stride", call.DefaultOpts.StepStride, "Fine inference window slide distance")
	retentionWidth = flag.Int("retention-width", call.DefaultOpts.RetentionWidth, "Candidates at or past step start + this offset are deferred to a later window")
	minReads       = flag.Int("min-reads", call.DefaultOpts.MinReads, "Windows with fewer spanning reads are skipped")
	maxReads       = flag.Int("max-reads", reads.DefaultOpts.MaxReads, "Windows deeper than this are downsampled")
	minOccurrences = flag.Int("min-occurrences", call.DefaultOpts.MinOccurrences, "Candidates called fewer times within a region are dropped")
	hetFraction    = flag.Float64("het-fraction", 0.25, "Minimum fraction of a position's depth for a second allele")
	mapq           = flag.Int("mapq", int(reads.DefaultOpts.MinMapQ), "Reads with MAPQ below this level are skipped")
	flagExclude    = flag.Int("flag-exclude", int(reads.DefaultOpts.FlagExclude), "Reads with a FLAG bit intersecting this value are skipped")
	minBaseQual    = flag.Int("min-base-qual", 0, "Lower bound on base quality in a single read")
	sample         = flag.String("sample", "SAMPLE", "Sample name for the VCF column header")
	outPath        = flag.String("out", "bio-hapcall.vcf", "Output VCF path; .gz suffix compresses")
	parallelism    = flag.Int("parallelism", 0, "Maximum number of simultaneous region aggregation jobs; 0 = runtime.NumCPU()")
)

func bioHapcallUsage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioHapcallUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 2 {
		if nPositionalArgs < 2 {
			log.Fatalf("Missing positional arguments (bampath and fapath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only bampath and fapath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	if (*bedPath == "") == (*region == "") {
		log.Fatalf("Exactly one of -bed and -region is required")
	}
	bampath := positionalArgs[0]
	fapath := positionalArgs[1]
	ctx := vcontext.Background()

	var targets *interval.Set
	var err error
	if *bedPath != "" {
		if targets, err = interval.Load(ctx, *bedPath); err != nil {
			log.Fatalf("loading %s: %v", *bedPath, err)
		}
	} else {
		entry, e := interval.ParseRegion(*region)
		if e != nil {
			log.Fatalf("parsing -region: %v", e)
		}
		if targets, err = interval.NewSet([]interval.Entry{entry}); err != nil {
			log.Fatalf("parsing -region: %v", err)
		}
	}

	fa, err := fasta.Load(ctx, fapath)
	if err != nil {
		log.Fatalf("loading %s: %v", fapath, err)
	}
	src, err := reads.NewBAMSource(ctx, bampath, *bamIndexPath, reads.Opts{
		MinMapQ:     byte(*mapq),
		FlagExclude: sam.Flags(*flagExclude),
		MaxReads:    *maxReads,
	})
	if err != nil {
		log.Fatalf("opening %s: %v", bampath, err)
	}
	defer func() {
		if e := src.Close(ctx); e != nil {
			log.Error.Printf("closing %s: %v", bampath, e)
		}
	}()

	caller := call.NewCaller(
		call.Opts{
			RegionStride:   *regionStride,
			RegionOverlap:  *regionOverlap,
			StepWidth:      *stepWidth,
			StepStride:     *stepStride,
			RetentionWidth: *retentionWidth,
			MinReads:       *minReads,
			MinOccurrences: *minOccurrences,
			Parallelism:    *parallelism,
		},
		src,
		fa,
		pileup.NewEncoder(byte(*minBaseQual)),
		pileup.NewConsensus(*hetFraction),
		align.NewAligner(),
	)
	calls, err := caller.Call(ctx, targets)
	if err != nil {
		log.Panicf("%v", err)
	}
	if err := vcf.WriteFile(ctx, *outPath, calls, *sample, targets.Chroms()); err != nil {
		log.Panicf("writing %s: %v", *outPath, err)
	}
	log.Printf("wrote %d calls to %s", len(calls), *outPath)
	log.Debug.Printf("exiting")
}
