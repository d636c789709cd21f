package datatable

import (
	"fmt"
	"log/slog"

	"github.com/tfglib/tfglib/pkg/frame"
	"github.com/tfglib/tfglib/pkg/vocoder"
)

// minSentinel seeds the running minimum so that any observed value
// replaces it on the first fold step.
const minSentinel = 1e50

// speakerRange accumulates the per-speaker elementwise max/min over
// the statistics columns of non-padded source frames. It is a fold:
// seed (max=0, min=sentinel), combine = elementwise max/min of the
// accumulator with one pair's masked column reduction.
type speakerRange struct {
	max *frame.Matrix // NumSpeakers × StatsCols
	min *frame.Matrix // NumSpeakers × StatsCols
}

func newSpeakerRange() *speakerRange {
	return &speakerRange{
		max: frame.New(NumSpeakers, StatsCols),
		min: frame.Fill(NumSpeakers, StatsCols, minSentinel),
	}
}

// fold combines one pair's source table into the accumulator for the
// given source speaker. Only rows with mask == 1 participate, so
// padding zeros never contaminate the range.
func (r *speakerRange) fold(speaker int, source, mask *frame.Matrix) {
	for i := 0; i < source.Rows(); i++ {
		if mask.At(i, 0) == 0 {
			continue
		}
		row := source.Row(i)[:StatsCols]
		for j, v := range row {
			if v > r.max.At(speaker, j) {
				r.max.Set(speaker, j, v)
			}
			if v < r.min.At(speaker, j) {
				r.min.Set(speaker, j, v)
			}
		}
	}
}

// ConstructDatatable assembles the full corpus datatable from the data
// root. The speaker and basename lists are read from the fixed-named
// list files under the root, the corpus is scanned once for its
// longest sequence, and every ordered speaker pair (self-pairs
// included) crossed with every basename is built and stacked:
// O(S²·U) pair builds, all held in memory until persisted.
func ConstructDatatable(root string) (*Datatable, error) {
	speakers, err := vocoder.ReadList(vocoder.ListPath(root, vocoder.SpeakersListFile))
	if err != nil {
		return nil, err
	}
	basenames, err := vocoder.ReadList(vocoder.ListPath(root, vocoder.BasenamesListFile))
	if err != nil {
		return nil, err
	}
	return Construct(root, speakers, basenames)
}

// Construct assembles the corpus datatable from explicit speaker and
// basename lists. Most callers want ConstructDatatable instead.
func Construct(root string, speakers, basenames []string) (*Datatable, error) {
	if len(speakers) == 0 || len(basenames) == 0 {
		return nil, fmt.Errorf("datatable: empty corpus (%d speakers, %d basenames)", len(speakers), len(basenames))
	}
	if len(speakers) > NumSpeakers {
		return nil, fmt.Errorf("%w: %d speakers, capacity %d", ErrTooManySpeakers, len(speakers), NumSpeakers)
	}

	longest, err := FindLongestSequence(root, speakers, basenames)
	if err != nil {
		return nil, err
	}
	slog.Info("corpus scanned",
		"speakers", len(speakers),
		"basenames", len(basenames),
		"longest_seq", longest)

	pairs := len(speakers) * len(speakers) * len(basenames)
	srcTables := make([]*frame.Matrix, 0, pairs)
	trgTables := make([]*frame.Matrix, 0, pairs)
	srcMask := frame.New(pairs, longest)
	trgMask := frame.New(pairs, longest)
	ranges := newSpeakerRange()

	pair := 0
	for srcIndex, srcSpeaker := range speakers {
		for trgIndex, trgSpeaker := range speakers {
			for _, basename := range basenames {
				slog.Debug("building pair",
					"source", srcSpeaker,
					"target", trgSpeaker,
					"basename", basename)

				pt, err := BuildPairTable(PairSpec{
					SourceDir:   vocoder.SpeakerDir(root, srcSpeaker),
					SourceIndex: srcIndex,
					TargetDir:   vocoder.SpeakerDir(root, trgSpeaker),
					TargetIndex: trgIndex,
					Basename:    basename,
				}, longest)
				if err != nil {
					return nil, fmt.Errorf("pair %s->%s %s: %w", srcSpeaker, trgSpeaker, basename, err)
				}

				ranges.fold(srcIndex, pt.Source, pt.SourceMask)

				srcTables = append(srcTables, pt.Source)
				trgTables = append(trgTables, pt.Target)
				// Masks are stored one row of length longest per pair.
				for f := 0; f < longest; f++ {
					srcMask.Set(pair, f, pt.SourceMask.At(f, 0))
					trgMask.Set(pair, f, pt.TargetMask.At(f, 0))
				}
				pair++
			}
		}
	}

	source, err := frame.StackRows(srcTables...)
	if err != nil {
		return nil, fmt.Errorf("datatable: stack source tables: %w", err)
	}
	target, err := frame.StackRows(trgTables...)
	if err != nil {
		return nil, fmt.Errorf("datatable: stack target tables: %w", err)
	}

	d := &Datatable{
		Source:       source,
		SourceMask:   srcMask,
		Target:       target,
		TargetMask:   trgMask,
		MaxSeqLength: longest,
		SpeakersMax:  ranges.max,
		SpeakersMin:  ranges.min,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}
