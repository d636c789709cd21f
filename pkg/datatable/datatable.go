// Package datatable builds padded, mask-annotated source/target
// parameter tables for a seq2seq voice-conversion corpus and persists
// them to a compressed binary container.
//
// The pipeline is a single-pass offline batch transform: scan the
// corpus once for the longest utterance, build one table per ordered
// (source speaker, target speaker, utterance) triple, fold per-speaker
// min/max statistics over the non-padded source frames, stack
// everything, and write it out. The whole corpus is held in memory
// before persistence, O(S²·U·longest·width) float64 cells, which
// bounds the feasible corpus size.
package datatable

import (
	"errors"
	"fmt"

	"github.com/tfglib/tfglib/pkg/frame"
)

// NumSpeakers is the fixed one-hot capacity of the persisted format.
// The speaker list may be shorter but never longer; the width-10
// indicator columns and the 10-row statistics matrices are part of the
// container layout, so the capacity cannot grow without a format bump.
const NumSpeakers = 10

// StatsCols is the number of leading source columns covered by the
// per-speaker statistics: mcp(40) + interpolated lf0(1) + interpolated
// vf(1).
const StatsCols = 42

// Feature column counts of the assembled tables.
const (
	// SourceCols = mcp(40) + lf0.i(1) + vf.i(1) + voiced(1) + eos(1) +
	// source one-hot(10) + target one-hot(10).
	SourceCols = 64
	// TargetCols = mcp(40) + lf0.i(1) + vf.i(1) + voiced(1) + eos(1).
	TargetCols = 44
)

// Column offsets inside the assembled tables.
const (
	ColLF0    = 40 // interpolated log-F0
	ColVF     = 41 // interpolated voicing frequency
	ColVoiced = 42 // voiced/unvoiced flag
	ColEOS    = 43 // end-of-sequence flag
	ColSrcID  = 44 // source speaker one-hot, 10 columns (source table only)
	ColTrgID  = 54 // target speaker one-hot, 10 columns (source table only)
)

// Sentinel errors.
var (
	// ErrShapeMismatch is returned when the vocoder streams of one
	// utterance disagree on frame count. This signals corrupt upstream
	// vocoder output and aborts the run.
	ErrShapeMismatch = errors.New("datatable: parameter stream shape mismatch")

	// ErrTooManySpeakers is returned when the speaker list exceeds the
	// fixed one-hot capacity of the persisted format.
	ErrTooManySpeakers = errors.New("datatable: speaker list exceeds fixed capacity")

	// ErrEmptySequence is returned when an utterance has no frames.
	ErrEmptySequence = errors.New("datatable: empty parameter stream")
)

// PairTable holds the padded tables of one (source speaker, target
// speaker, utterance) triple.
//
// Source rows are front-padded (zeros first, true frames at the end)
// and target rows are back-padded (true frames first, zeros at the
// end). The masks mirror that asymmetry: the source mask is
// zeros-then-ones, the target mask ones-then-zeros. Both tables and
// both masks have exactly longest-sequence rows.
type PairTable struct {
	Source     *frame.Matrix // longest × SourceCols
	SourceMask *frame.Matrix // longest × 1
	Target     *frame.Matrix // longest × TargetCols
	TargetMask *frame.Matrix // longest × 1
}

// Datatable is the assembled corpus: every pair's tables stacked along
// the frame axis, masks stored one row per pair, plus the corpus-wide
// longest sequence length and the per-speaker statistics. It is built
// once per run and never mutated afterwards.
type Datatable struct {
	Source     *frame.Matrix // (pairs·longest) × SourceCols
	SourceMask *frame.Matrix // pairs × longest
	Target     *frame.Matrix // (pairs·longest) × TargetCols
	TargetMask *frame.Matrix // pairs × longest

	MaxSeqLength int
	SpeakersMax  *frame.Matrix // NumSpeakers × StatsCols
	SpeakersMin  *frame.Matrix // NumSpeakers × StatsCols
}

// Pairs returns the number of pair tables stacked in the datatable.
func (d *Datatable) Pairs() int {
	return d.SourceMask.Rows()
}

// validate checks the structural invariants of the container layout.
// It runs on save and on load so a malformed file cannot round-trip.
func (d *Datatable) validate() error {
	if d.MaxSeqLength <= 0 {
		return fmt.Errorf("datatable: invalid max sequence length %d", d.MaxSeqLength)
	}
	if d.Source.Cols() != SourceCols {
		return fmt.Errorf("datatable: source table has %d columns, want %d", d.Source.Cols(), SourceCols)
	}
	if d.Target.Cols() != TargetCols {
		return fmt.Errorf("datatable: target table has %d columns, want %d", d.Target.Cols(), TargetCols)
	}
	if !d.SourceMask.SameShape(d.TargetMask) {
		return fmt.Errorf("%w: source mask is %dx%d, target mask is %dx%d",
			ErrShapeMismatch,
			d.SourceMask.Rows(), d.SourceMask.Cols(),
			d.TargetMask.Rows(), d.TargetMask.Cols())
	}
	if d.SourceMask.Cols() != d.MaxSeqLength {
		return fmt.Errorf("datatable: mask row length %d does not match max sequence length %d",
			d.SourceMask.Cols(), d.MaxSeqLength)
	}
	pairs := d.SourceMask.Rows()
	if d.Source.Rows() != pairs*d.MaxSeqLength || d.Target.Rows() != pairs*d.MaxSeqLength {
		return fmt.Errorf("datatable: table rows (src %d, trg %d) do not match %d pairs × %d frames",
			d.Source.Rows(), d.Target.Rows(), pairs, d.MaxSeqLength)
	}
	for name, m := range map[string]*frame.Matrix{
		"speakers_max": d.SpeakersMax,
		"speakers_min": d.SpeakersMin,
	} {
		if m.Rows() != NumSpeakers || m.Cols() != StatsCols {
			return fmt.Errorf("datatable: %s is %dx%d, want %dx%d",
				name, m.Rows(), m.Cols(), NumSpeakers, StatsCols)
		}
	}
	return nil
}
