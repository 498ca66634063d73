// Package fasta provides the reference-sequence source for the calling
// engine: an in-memory FASTA with window-clamped fetches.  Sequence names
// are the characters after '>' up to the first space.
package fasta

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Fasta holds a set of named reference sequences.
type Fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads all FASTA data from r into memory.
func New(r io.Reader) (*Fasta, error) {
	f := &Fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1024*1024*300)
	var seqName string
	var seq strings.Builder
	flush := func() error {
		if seq.Len() == 0 {
			return nil
		}
		if seqName == "" {
			return errors.New("fasta.New: sequence data before first header")
		}
		f.seqs[seqName] = seq.String()
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.SplitN(line[1:], " ", 2)[0]
		} else {
			seq.WriteString(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "fasta.New: couldn't read FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load opens path (possibly compressed; format sniffed by base/compress) and
// reads it with New.
func Load(ctx context.Context, path string) (f *Fasta, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return New(reader)
}

// Get returns the bases of seqName in the 0-based half-open range
// [start, end).  The range must be fully inside the sequence.
func (f *Fasta) Get(seqName string, start, end int) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("fasta.Get: sequence not found: %s", seqName)
	}
	if start < 0 || end <= start || end > len(s) {
		return "", errors.Errorf("fasta.Get: invalid range %d-%d for sequence %s (length %d)",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Window behaves like Get but clamps the range to the sequence boundaries.
// Calling windows near chromosome ends routinely extend past them; the
// clamped (possibly shorter, possibly empty) window is returned along with
// the clamped start.
func (f *Fasta) Window(seqName string, start, end int) (string, int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", 0, errors.Errorf("fasta.Window: sequence not found: %s", seqName)
	}
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if end <= start {
		return "", start, nil
	}
	return s[start:end], start, nil
}

// Len returns the length of seqName.
func (f *Fasta) Len(seqName string) (int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("fasta.Len: sequence not found: %s", seqName)
	}
	return len(s), nil
}

// SeqNames returns all sequence names in file order.
func (f *Fasta) SeqNames() []string { return f.seqNames }
