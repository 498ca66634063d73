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

// Package reads serves windows of aligned reads from an indexed BAM file.
package reads

import (
	"context"
	"io"
	"math/rand"
	"sort"
	"sync"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/bgzf/index"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// Opts configures read filtering and depth capping.
type Opts struct {
	// MinMapQ drops reads with a lower mapping quality.
	MinMapQ byte
	// FlagExclude drops reads with any of these flags set.
	FlagExclude sam.Flags
	// MaxReads caps the number of reads returned per window; beyond it the
	// window is downsampled uniformly.  0 means no cap.
	MaxReads int
}

// DefaultOpts excludes secondary, QC-failed, duplicate, and supplementary
// alignments.
var DefaultOpts = Opts{
	MinMapQ:     20,
	FlagExclude: sam.Secondary | sam.QCFail | sam.Duplicate | sam.Supplementary,
	MaxReads:    200,
}

// BAMSource reads windows from one indexed BAM.  Safe for concurrent use;
// window fetches serialize on the underlying reader.
type BAMSource struct {
	opts Opts

	mu        sync.Mutex
	in        file.File
	reader    *bam.Reader
	index     *bam.Index
	refByName map[string]*sam.Reference
	rnd       *rand.Rand
}

// NewBAMSource opens bampath and its index.  indexpath may be empty, in
// which case bampath + ".bai" is used.
func NewBAMSource(ctx context.Context, bampath, indexpath string, opts Opts) (*BAMSource, error) {
	if indexpath == "" {
		indexpath = bampath + ".bai"
	}
	in, err := file.Open(ctx, bampath)
	if err != nil {
		return nil, err
	}
	reader, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		_ = in.Close(ctx)
		return nil, err
	}
	indexIn, err := file.Open(ctx, indexpath)
	if err != nil {
		_ = in.Close(ctx)
		return nil, err
	}
	defer indexIn.Close(ctx) // nolint: errcheck
	idx, err := bam.ReadIndex(indexIn.Reader(ctx))
	if err != nil {
		_ = in.Close(ctx)
		return nil, err
	}
	s := &BAMSource{
		opts:      opts,
		in:        in,
		reader:    reader,
		index:     idx,
		refByName: make(map[string]*sam.Reference),
		// Fixed seed so repeated runs downsample identically.
		rnd: rand.New(rand.NewSource(0)),
	}
	for _, ref := range reader.Header().Refs() {
		s.refByName[ref.Name()] = ref
	}
	return s, nil
}

// Close releases the BAM reader and file handle.
func (s *BAMSource) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.reader.Close()
	if e := s.in.Close(ctx); e != nil && err == nil {
		err = e
	}
	return err
}

// SpanningReads returns the filtered reads overlapping [start, end) on
// chrom, in position order, downsampled to Opts.MaxReads when deeper.  A
// window with no index coverage returns an empty slice, not an error.
func (s *BAMSource) SpanningReads(ctx context.Context, chrom string, start, end int) ([]*sam.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.refByName[chrom]
	if !ok {
		return nil, errors.Errorf("reads: reference %s not in BAM header", chrom)
	}
	if end > ref.Len() {
		end = ref.Len()
	}
	if start >= end {
		return nil, nil
	}
	chunks, err := s.index.Chunks(ref, start, end)
	if err == index.ErrInvalid || len(chunks) == 0 {
		// No reads on this interval.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.reader.Seek(chunks[0].Begin); err != nil {
		return nil, err
	}
	var out []*sam.Record
	for {
		rec, err := s.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rec.Ref.ID() != ref.ID() || rec.Pos >= end {
			break
		}
		if rec.MapQ < s.opts.MinMapQ || rec.Flags&s.opts.FlagExclude != 0 {
			continue
		}
		if rec.End() > start {
			out = append(out, rec)
		}
	}
	if s.opts.MaxReads > 0 && len(out) > s.opts.MaxReads {
		out = s.downsample(out)
	}
	return out, nil
}

// downsample picks Opts.MaxReads reads uniformly at random and restores
// position order.
func (s *BAMSource) downsample(recs []*sam.Record) []*sam.Record {
	for i := 0; i < s.opts.MaxReads; i++ {
		j := i + s.rnd.Intn(len(recs)-i)
		recs[i], recs[j] = recs[j], recs[i]
	}
	recs = recs[:s.opts.MaxReads]
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Pos < recs[j].Pos })
	return recs
}
