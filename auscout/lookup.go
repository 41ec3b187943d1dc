package auscout

import (
	"math/bits"

	"github.com/audioscout/auscoutds/auscouterrors"
)

// LookupMatch is one emitted result: the track id, the earliest matched
// position within that track's chain, and the confidence score that
// crossed the threshold.
type LookupMatch struct {
	ID    int64
	Pos   uint32
	Score float64
}

// tracker is the transient per-lookup record for one candidate id
// (glossary: Tracker), holding its current sliding-match window.
type tracker struct {
	start, last int
	pos         uint32
	count       int
}

// Lookup implements the bit-toggle / sliding-window voting algorithm:
// hashSeq and toggleSeq must be equal length and nonempty; each toggle
// word's popcount must not exceed MaxTogglePopcount.
//
// The algorithm is first-hit: as soon as any tracked id's window
// crosses threshold, Lookup stops -- it does not rank multiple tracks,
// and it never examines further candidates (even within the same
// frame) once a result has been emitted. If no id reaches threshold by
// the end of the probe, it returns an empty, non-nil slice.
func (ix *Index) Lookup(hashSeq, toggleSeq []uint32, threshold float64) ([]LookupMatch, error) {
	if len(hashSeq) == 0 || len(toggleSeq) == 0 || len(hashSeq) != len(toggleSeq) {
		return nil, auscouterrors.ErrLength
	}
	for _, t := range toggleSeq {
		if bits.OnesCount32(t) > MaxTogglePopcount {
			return nil, auscouterrors.ErrTogglePopcount
		}
	}

	trackers := make(map[int64]*tracker)
	results := make([]LookupMatch, 0)

frames:
	for i, frame := range hashSeq {
		toggle := toggleSeq[i]
		for _, candidate := range expandCandidates(frame, toggle) {
			pl := ix.hashDict[candidate]
			if pl == nil {
				continue
			}
			ref := pl.head
			for n := 0; ref != nilRef && n < LookupEntriesPerFrameLimit; n, ref = n+1, ix.arena.get(ref).next {
				e := ix.arena.get(ref)
				tr, tracked := trackers[e.id]
				switch {
				case !tracked:
					trackers[e.id] = &tracker{start: i, last: i, pos: e.pos, count: 1}
				case i <= tr.last+LookupSteps:
					if e.pos < tr.pos {
						tr.pos = e.pos
					}
					tr.count++
					tr.last = i
					window := tr.last - tr.start + 1
					if window >= LookupBlock {
						score := float64(tr.count) / float64(window)
						if score >= threshold {
							results = append(results, LookupMatch{ID: e.id, Pos: tr.pos, Score: score})
							delete(trackers, e.id)
							break frames
						}
					}
				default: // stale: start a fresh window
					trackers[e.id] = &tracker{start: i, last: i, pos: e.pos, count: 1}
				}
			}
		}
	}

	ix.log.Debug("lookup", "frames", len(hashSeq), "matches", len(results))
	return results, nil
}

// expandCandidates enumerates every 32-bit value obtained by flipping
// any subset of frame's bits at positions where toggle has a 1 bit,
// exactly 2^popcount(toggle) candidates including frame itself. Subsets
// are enumerated in the deterministic order of toggle's set bits, MSB
// to LSB; mask 0 always yields frame unchanged.
func expandCandidates(frame, toggle uint32) []uint32 {
	var bitPos [32]uint32
	n := 0
	for b := 31; b >= 0; b-- {
		if toggle&(uint32(1)<<uint(b)) != 0 {
			bitPos[n] = uint32(b)
			n++
		}
	}
	total := 1 << n
	candidates := make([]uint32, total)
	for mask := 0; mask < total; mask++ {
		c := frame
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				c ^= uint32(1) << bitPos[j]
			}
		}
		candidates[mask] = c
	}
	return candidates
}
