package datatable

import (
	"fmt"

	"github.com/tfglib/tfglib/pkg/vocoder"
)

// FindLongestSequence returns the maximum frame count over every
// (speaker, basename) combination in the corpus. The log-F0 stream is
// used as the frame-count proxy: it exists for every utterance and is
// always one column wide, so it is the cheapest stream to scan.
//
// Any unreadable or malformed stream file aborts the scan with an
// error naming the offending speaker and basename.
func FindLongestSequence(root string, speakers, basenames []string) (int, error) {
	longest := 0
	for _, speaker := range speakers {
		dir := vocoder.SpeakerDir(root, speaker)
		for _, basename := range basenames {
			path := vocoder.StreamPath(dir, basename, vocoder.TagLF0)
			params, err := vocoder.ParseFile(vocoder.ScalarWidth, path)
			if err != nil {
				return 0, fmt.Errorf("datatable: scan %s/%s: %w", speaker, basename, err)
			}
			if params.Rows() > longest {
				longest = params.Rows()
			}
		}
	}
	return longest, nil
}
