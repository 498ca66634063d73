// Package align turns a predicted allele sequence into discrete variant
// records by globally aligning it against the reference window and walking
// the alignment.  Substitutions become SNVs; insertion and deletion runs
// become VCF-style anchored indels.
package align

import (
	"strings"

	"github.com/grailbio/hapcall/variant"
	"github.com/pkg/errors"
)

// Aligner holds Needleman-Wunsch scoring parameters.
type Aligner struct {
	Match    int
	Mismatch int
	Gap      int
}

// NewAligner returns an Aligner with the default scoring scheme.
func NewAligner() *Aligner {
	return &Aligner{Match: 2, Mismatch: -4, Gap: -5}
}

// Alignment edit operations, in traceback encoding.
const (
	opMatch byte = iota // diagonal: ref base consumed, pred base consumed
	opDel               // up: ref base consumed only
	opIns               // left: pred base consumed only
)

// Diff aligns pred against ref and emits the differences as variants.
// offset is the 0-based reference position of ref[0].  conf holds a
// per-position confidence for pred and may be nil; variant qualities are
// the mean confidence over the predicted bases involved (anchored indels
// use the anchor base when no predicted base is consumed).
func (a *Aligner) Diff(chrom, ref, pred string, offset int, conf []float64) ([]*variant.Variant, error) {
	if conf != nil && len(conf) != len(pred) {
		return nil, errors.Errorf("align.Diff: %d confidences for %d predicted bases", len(conf), len(pred))
	}
	ref = strings.ToUpper(ref)
	pred = strings.ToUpper(pred)
	if ref == pred {
		return nil, nil
	}
	ops := a.traceback(ref, pred)
	return a.emit(chrom, ref, pred, offset, conf, ops)
}

// traceback runs the full NW dynamic program and returns the edit
// operations from the start of the sequences to the end.
func (a *Aligner) traceback(ref, pred string) []byte {
	nRef := len(ref)
	nPred := len(pred)
	cols := nPred + 1
	score := make([]int, (nRef+1)*cols)
	dir := make([]byte, (nRef+1)*cols)
	for j := 1; j <= nPred; j++ {
		score[j] = j * a.Gap
		dir[j] = opIns
	}
	for i := 1; i <= nRef; i++ {
		score[i*cols] = i * a.Gap
		dir[i*cols] = opDel
	}
	for i := 1; i <= nRef; i++ {
		for j := 1; j <= nPred; j++ {
			diag := score[(i-1)*cols+j-1]
			if ref[i-1] == pred[j-1] {
				diag += a.Match
			} else {
				diag += a.Mismatch
			}
			up := score[(i-1)*cols+j] + a.Gap
			left := score[i*cols+j-1] + a.Gap
			// Gap moves win ties against the diagonal: with a linear gap
			// penalty this keeps indel runs contiguous in the traceback.
			// Mismatches still surface as SNVs since a mismatch scores
			// strictly better than an insertion-deletion pair.
			best, op := diag, opMatch
			if up >= best {
				best, op = up, opDel
			}
			if left >= best {
				best, op = left, opIns
			}
			score[i*cols+j] = best
			dir[i*cols+j] = op
		}
	}
	var rev []byte
	for i, j := nRef, nPred; i > 0 || j > 0; {
		op := dir[i*cols+j]
		rev = append(rev, op)
		switch op {
		case opMatch:
			i--
			j--
		case opDel:
			i--
		case opIns:
			j--
		}
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

func meanConf(conf []float64, start, end int) float64 {
	if conf == nil || end <= start {
		return 0
	}
	sum := 0.0
	for _, c := range conf[start:end] {
		sum += c
	}
	return sum / float64(end-start)
}

// emit walks the alignment and converts edit runs into variant records.
func (a *Aligner) emit(chrom, ref, pred string, offset int, conf []float64, ops []byte) ([]*variant.Variant, error) {
	var out []*variant.Variant
	i, j := 0, 0 // positions in ref, pred
	for k := 0; k < len(ops); {
		switch ops[k] {
		case opMatch:
			if ref[i] != pred[j] && pred[j] != 'N' {
				out = append(out, &variant.Variant{
					Chrom: chrom,
					Pos:   offset + i,
					Ref:   ref[i : i+1],
					Alt:   pred[j : j+1],
					Qual:  meanConf(conf, j, j+1),
				})
			}
			i++
			j++
			k++
		case opIns:
			runEnd := k
			for runEnd < len(ops) && ops[runEnd] == opIns {
				runEnd++
			}
			n := runEnd - k
			// Unanchored insertions at the window edge are dropped; a later
			// window sees them with context.
			if i > 0 {
				out = append(out, &variant.Variant{
					Chrom: chrom,
					Pos:   offset + i - 1,
					Ref:   ref[i-1 : i],
					Alt:   ref[i-1:i] + pred[j:j+n],
					Qual:  meanConf(conf, j, j+n),
				})
			}
			j += n
			k = runEnd
		case opDel:
			runEnd := k
			for runEnd < len(ops) && ops[runEnd] == opDel {
				runEnd++
			}
			n := runEnd - k
			if i > 0 {
				q := 0.0
				if j > 0 {
					q = meanConf(conf, j-1, j)
				}
				out = append(out, &variant.Variant{
					Chrom: chrom,
					Pos:   offset + i - 1,
					Ref:   ref[i-1 : i+n],
					Alt:   ref[i-1 : i],
					Qual:  q,
				})
			}
			i += n
			k = runEnd
		default:
			return nil, errors.Errorf("align.emit: unexpected op %d", ops[k])
		}
	}
	return out, nil
}
