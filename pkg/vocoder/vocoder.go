// Package vocoder reads Ahocoder-style vocoded parameter files and
// knows the on-disk layout of a seq2seq voice-conversion corpus.
//
// A parameter file is a headerless sequence of little-endian float32
// records, width values per frame. The corpus layout is
//
//	<root>/vocoded_s2s/<speaker>/<basename>.<tag>.dat
//
// with one file per parameter stream, plus two newline-delimited list
// files directly under the root naming the speakers and the utterance
// basenames shared by all speakers.
package vocoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tfglib/tfglib/pkg/frame"
)

// Stream tags of the vocoded parameter files.
const (
	TagMCP     = "mcp"   // mel-cepstral coefficients, 40 per frame
	TagLF0     = "lf0"   // log-F0, 1 per frame
	TagLF0Itp  = "lf0.i" // log-F0 with unvoiced gaps interpolated
	TagVF      = "vf"    // voicing frequency, 1 per frame
	TagVFItp   = "vf.i"  // voicing frequency, interpolated
	fileSuffix = ".dat"
)

// Feature widths per stream.
const (
	MCPWidth    = 40
	ScalarWidth = 1
)

// Fixed names of the corpus list files.
const (
	SpeakersListFile  = "speakers.list"
	BasenamesListFile = "seq2seq_basenames.list"
)

// subdir holding the per-speaker vocoded parameter directories.
const vocodedDir = "vocoded_s2s"

// Sentinel errors.
var (
	// ErrRecordSize is returned when a parameter file's size is not a
	// whole number of width-sized frames.
	ErrRecordSize = errors.New("vocoder: file size is not a multiple of the frame width")
)

// ParseFile reads a fixed-width parameter file and returns its contents
// as a frames×width matrix. It fails if the file size is not an exact
// multiple of width float32 records.
func ParseFile(width int, path string) (*frame.Matrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("vocoder: invalid frame width %d", width)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocoder: read %s: %w", path, err)
	}
	frameBytes := width * 4
	if len(raw)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %s has %d bytes, frame is %d bytes",
			ErrRecordSize, path, len(raw), frameBytes)
	}
	rows := len(raw) / frameBytes
	m := frame.New(rows, width)
	le := binary.LittleEndian
	for i := 0; i < rows*width; i++ {
		bits := le.Uint32(raw[i*4:])
		m.Raw()[i] = float64(math.Float32frombits(bits))
	}
	return m, nil
}

// SpeakerDir returns the directory holding one speaker's vocoded
// parameter files.
func SpeakerDir(root, speaker string) string {
	return filepath.Join(root, vocodedDir, speaker)
}

// StreamPath returns the path of one parameter stream file inside a
// speaker directory.
func StreamPath(dir, basename, tag string) string {
	return filepath.Join(dir, basename+"."+tag+fileSuffix)
}

// ListPath returns the path of a corpus list file under the data root.
func ListPath(root, name string) string {
	return filepath.Join(root, name)
}

// ReadList reads a newline-delimited list file and returns one entry
// per line with the terminator stripped. Blank lines are kept: the list
// files are positional (an entry's line number is its corpus index), so
// silently dropping lines would shift every later index.
func ReadList(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocoder: read list %s: %w", path, err)
	}
	s := strings.ReplaceAll(string(raw), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\n"), nil
}
