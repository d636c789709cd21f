package datatable

import (
	"fmt"

	"github.com/tfglib/tfglib/pkg/frame"
	"github.com/tfglib/tfglib/pkg/vocoder"
)

// PairSpec identifies one (source speaker, target speaker, utterance)
// triple to build a table for. Dir fields are the per-speaker vocoded
// parameter directories; Index fields are the speakers' positions in
// the corpus speaker list and select the one-hot rows.
type PairSpec struct {
	SourceDir   string
	SourceIndex int
	TargetDir   string
	TargetIndex int
	Basename    string
}

// sideStreams holds the five parameter streams of one utterance on one
// side of a pair. The raw lf0/vf streams are loaded for shape
// validation and the voiced flag; the interpolated variants carry the
// values that end up in the table.
type sideStreams struct {
	mcp   *frame.Matrix
	lf0   *frame.Matrix
	lf0i  *frame.Matrix
	vf    *frame.Matrix
	vfi   *frame.Matrix
	count int // true frame count of the utterance
}

// loadSide parses the five streams of one utterance and validates that
// they agree on frame count. A disagreement means the upstream vocoder
// output is corrupt and the run must stop.
func loadSide(dir, basename string) (*sideStreams, error) {
	s := &sideStreams{}
	for _, load := range []struct {
		dst   **frame.Matrix
		width int
		tag   string
	}{
		{&s.mcp, vocoder.MCPWidth, vocoder.TagMCP},
		{&s.lf0, vocoder.ScalarWidth, vocoder.TagLF0},
		{&s.lf0i, vocoder.ScalarWidth, vocoder.TagLF0Itp},
		{&s.vf, vocoder.ScalarWidth, vocoder.TagVF},
		{&s.vfi, vocoder.ScalarWidth, vocoder.TagVFItp},
	} {
		m, err := vocoder.ParseFile(load.width, vocoder.StreamPath(dir, basename, load.tag))
		if err != nil {
			return nil, err
		}
		*load.dst = m
	}

	s.count = s.mcp.Rows()
	if s.count == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrEmptySequence, basename, dir)
	}
	for _, check := range []struct {
		tag  string
		rows int
	}{
		{vocoder.TagLF0, s.lf0.Rows()},
		{vocoder.TagLF0Itp, s.lf0i.Rows()},
		{vocoder.TagVF, s.vf.Rows()},
		{vocoder.TagVFItp, s.vfi.Rows()},
	} {
		if check.rows != s.count {
			return nil, fmt.Errorf("%w: %s of %s in %s has %d frames, %s has %d",
				ErrShapeMismatch, check.tag, basename, dir, check.rows, vocoder.TagMCP, s.count)
		}
	}
	return s, nil
}

// voicedFlag derives the per-frame voiced/unvoiced indicator from the
// raw voicing-frequency stream: 1 where vf ≠ 0, 0 where vf == 0.
func voicedFlag(vf *frame.Matrix) *frame.Matrix {
	flag := frame.New(vf.Rows(), 1)
	for i := 0; i < vf.Rows(); i++ {
		if vf.At(i, 0) != 0 {
			flag.Set(i, 0, 1)
		}
	}
	return flag
}

// eosFlag derives the end-of-sequence indicator: all zeros except a
// single 1 on the last true frame, before any padding is applied.
func eosFlag(rows int) *frame.Matrix {
	flag := frame.New(rows, 1)
	flag.Set(rows-1, 0, 1)
	return flag
}

// BuildPairTable builds the padded source/target tables and masks for
// one pair. longest is the corpus-wide longest sequence length; every
// output has exactly that many rows. Source content is front-padded,
// target content back-padded, and the masks follow the same asymmetry.
func BuildPairTable(spec PairSpec, longest int) (*PairTable, error) {
	src, err := loadSide(spec.SourceDir, spec.Basename)
	if err != nil {
		return nil, fmt.Errorf("datatable: source side: %w", err)
	}
	trg, err := loadSide(spec.TargetDir, spec.Basename)
	if err != nil {
		return nil, fmt.Errorf("datatable: target side: %w", err)
	}

	srcOneHot, err := frame.OneHotRows(spec.SourceIndex, NumSpeakers, src.count)
	if err != nil {
		return nil, err
	}
	// The target identity block in the source table is replicated over
	// the target side's frames, not the source's: the two sides of one
	// utterance can differ in length, and the block keeps the target's
	// true frame count before front-padding.
	trgOneHot, err := frame.OneHotRows(spec.TargetIndex, NumSpeakers, trg.count)
	if err != nil {
		return nil, err
	}

	// Masks: source gets longest−count zeros then count ones, target
	// count ones then longest−count zeros.
	sourceMask, err := frame.Ones(src.count, 1).PadFront(longest)
	if err != nil {
		return nil, fmt.Errorf("datatable: %s: source longer than corpus maximum: %w", spec.Basename, err)
	}
	targetMask, err := frame.Ones(trg.count, 1).PadBack(longest)
	if err != nil {
		return nil, fmt.Errorf("datatable: %s: target longer than corpus maximum: %w", spec.Basename, err)
	}
	if !sourceMask.SameShape(targetMask) {
		return nil, fmt.Errorf("%w: masks disagree for %s", ErrShapeMismatch, spec.Basename)
	}

	source, err := padConcat(longest, (*frame.Matrix).PadFront,
		src.mcp, src.lf0i, src.vfi, voicedFlag(src.vf), eosFlag(src.count), srcOneHot, trgOneHot)
	if err != nil {
		return nil, fmt.Errorf("datatable: %s: assemble source: %w", spec.Basename, err)
	}
	target, err := padConcat(longest, (*frame.Matrix).PadBack,
		trg.mcp, trg.lf0i, trg.vfi, voicedFlag(trg.vf), eosFlag(trg.count))
	if err != nil {
		return nil, fmt.Errorf("datatable: %s: assemble target: %w", spec.Basename, err)
	}

	return &PairTable{
		Source:     source,
		SourceMask: sourceMask,
		Target:     target,
		TargetMask: targetMask,
	}, nil
}

// padConcat zero-pads every stream to longest rows with the given pad
// direction, then joins them along the feature axis.
func padConcat(longest int, pad func(*frame.Matrix, int) (*frame.Matrix, error), streams ...*frame.Matrix) (*frame.Matrix, error) {
	padded := make([]*frame.Matrix, len(streams))
	for i, s := range streams {
		p, err := pad(s, longest)
		if err != nil {
			return nil, err
		}
		padded[i] = p
	}
	return frame.ConcatCols(padded...)
}
