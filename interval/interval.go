// Package interval represents the target intervals a calling run is
// restricted to, as a per-chromosome union of disjoint [start, end)
// intervals.  The union is stored as a sorted endpoint sequence (start of
// interval #k at element [2k], end at [2k+1]), so membership queries reduce
// to a binary search over a flat []int.
package interval

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Entry is a single half-open target interval.
type Entry struct {
	Chrom string
	Start int
	End   int
}

// Set is an immutable union of target intervals.
type Set struct {
	// endpoints holds the merged, sorted endpoint sequence per chromosome.
	endpoints map[string][]int
	// chroms preserves first-appearance order; it defines genomic output
	// order for downstream sorting.
	chroms []string
}

// NewSet builds a Set from entries, merging overlapping and adjacent
// intervals.  Entry order determines chromosome order.
func NewSet(entries []Entry) (*Set, error) {
	byChrom := make(map[string][]Entry)
	s := &Set{endpoints: make(map[string][]int)}
	for _, e := range entries {
		if e.End <= e.Start || e.Start < 0 {
			return nil, errors.Errorf("interval.NewSet: invalid interval %s:%d-%d", e.Chrom, e.Start, e.End)
		}
		if _, ok := byChrom[e.Chrom]; !ok {
			s.chroms = append(s.chroms, e.Chrom)
		}
		byChrom[e.Chrom] = append(byChrom[e.Chrom], e)
	}
	for _, chrom := range s.chroms {
		ents := byChrom[chrom]
		sort.Slice(ents, func(i, j int) bool {
			if ents[i].Start != ents[j].Start {
				return ents[i].Start < ents[j].Start
			}
			return ents[i].End < ents[j].End
		})
		var endpoints []int
		for _, e := range ents {
			n := len(endpoints)
			if n > 0 && e.Start <= endpoints[n-1] {
				// Overlaps or abuts the previous interval; extend it.
				if e.End > endpoints[n-1] {
					endpoints[n-1] = e.End
				}
				continue
			}
			endpoints = append(endpoints, e.Start, e.End)
		}
		s.endpoints[chrom] = endpoints
	}
	return s, nil
}

// Contains reports whether pos is inside the union for chrom.
func (s *Set) Contains(chrom string, pos int) bool {
	endpoints := s.endpoints[chrom]
	// idx is odd iff pos is inside an interval, since endpoints alternate
	// start, end, start, end, ...
	idx := sort.SearchInts(endpoints, pos+1)
	return idx&1 == 1
}

// Overlaps reports whether [start, end) intersects the union for chrom.
func (s *Set) Overlaps(chrom string, start, end int) bool {
	endpoints := s.endpoints[chrom]
	idx := sort.SearchInts(endpoints, start+1)
	if idx&1 == 1 {
		return true
	}
	return idx < len(endpoints) && endpoints[idx] < end
}

// Entries returns the merged intervals in genomic order.
func (s *Set) Entries() []Entry {
	var entries []Entry
	for _, chrom := range s.chroms {
		endpoints := s.endpoints[chrom]
		for i := 0; i < len(endpoints); i += 2 {
			entries = append(entries, Entry{Chrom: chrom, Start: endpoints[i], End: endpoints[i+1]})
		}
	}
	return entries
}

// Chroms returns chromosome names in first-appearance order.
func (s *Set) Chroms() []string { return s.chroms }

// ChromRank returns the ordering rank for chrom, or len(chroms) if the
// chromosome is not part of the set.
func (s *Set) ChromRank(chrom string) int {
	for i, c := range s.chroms {
		if c == chrom {
			return i
		}
	}
	return len(s.chroms)
}

// NewSetFromBED parses 0-based BED rows (chrom, start, end; later columns
// ignored) from r.  Lines starting with "track", "browser", or "#" are
// skipped.
func NewSetFromBED(r io.Reader) (*Set, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errors.Errorf("interval.NewSetFromBED: line %d: fewer than 3 columns", lineIdx)
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "interval.NewSetFromBED: line %d", lineIdx)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "interval.NewSetFromBED: line %d", lineIdx)
		}
		entries = append(entries, Entry{Chrom: fields[0], Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "interval.NewSetFromBED")
	}
	return NewSet(entries)
}

// ParseRegion parses a samtools-style region string: "chr:start-end" with
// 1-based inclusive bounds, "chr:pos" for a single position, or "chr" alone
// for [0, 2^31-2).
func ParseRegion(region string) (Entry, error) {
	colon := strings.LastIndexByte(region, ':')
	if colon == -1 {
		if region == "" {
			return Entry{}, errors.New("interval.ParseRegion: empty region string")
		}
		return Entry{Chrom: region, Start: 0, End: 1<<31 - 2}, nil
	}
	chrom := region[:colon]
	rangeStr := region[colon+1:]
	dash := strings.IndexByte(rangeStr, '-')
	if dash == -1 {
		pos, err := strconv.Atoi(rangeStr)
		if err != nil || pos < 1 {
			return Entry{}, errors.Errorf("interval.ParseRegion: invalid position in %q", region)
		}
		return Entry{Chrom: chrom, Start: pos - 1, End: pos}, nil
	}
	start, err := strconv.Atoi(rangeStr[:dash])
	if err != nil || start < 1 {
		return Entry{}, errors.Errorf("interval.ParseRegion: invalid start in %q", region)
	}
	end, err := strconv.Atoi(rangeStr[dash+1:])
	if err != nil || end < start {
		return Entry{}, errors.Errorf("interval.ParseRegion: invalid end in %q", region)
	}
	return Entry{Chrom: chrom, Start: start - 1, End: end}, nil
}
