package datatable

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tfglib/tfglib/pkg/vocoder"
)

// ---------------------------------------------------------------------------
// Synthetic corpus fixture
//
// Two speakers, one shared utterance: spkA has 5 frames, spkB has 8.
// Every generated value is an exact float32 so parsing never loses
// precision and comparisons below can be exact.
// ---------------------------------------------------------------------------

type speakerFixture struct {
	name string
	vf   []float64 // raw voicing frequency per frame; 0 marks unvoiced
}

var fixtureSpeakers = []speakerFixture{
	{name: "spkA", vf: []float64{0, 100, 200, 0, 150}},
	{name: "spkB", vf: []float64{100, 0, 300, 400, 0, 600, 700, 800}},
}

const fixtureBasename = "utt01"

// Deterministic generators for the fixture's parameter values.

func mcpVal(spk, i, j int) float64 { return float64(spk+1) + float64(i)*0.25 + float64(j)*0.03125 }

func lf0Val(spk, i int) float64 { return 4 + float64(spk) + 0.5*float64(i) }

func lf0iVal(spk, i int) float64 { return lf0Val(spk, i) + 0.25 }

func vfiVal(v float64) float64 {
	if v == 0 {
		return 50 // interpolation fills unvoiced gaps with a nonzero value
	}
	return v
}

// writeParams writes a little-endian float32 parameter file.
func writeParams(t *testing.T, path string, values []float64) {
	t.Helper()
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(v)))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeSpeaker writes the five parameter streams of one fixture
// speaker's utterance.
func writeSpeaker(t *testing.T, root string, spk int, f speakerFixture) {
	t.Helper()
	dir := vocoder.SpeakerDir(root, f.name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	n := len(f.vf)

	mcp := make([]float64, 0, n*vocoder.MCPWidth)
	lf0 := make([]float64, n)
	lf0i := make([]float64, n)
	vfi := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < vocoder.MCPWidth; j++ {
			mcp = append(mcp, mcpVal(spk, i, j))
		}
		lf0[i] = lf0Val(spk, i)
		lf0i[i] = lf0iVal(spk, i)
		vfi[i] = vfiVal(f.vf[i])
	}

	writeParams(t, vocoder.StreamPath(dir, fixtureBasename, vocoder.TagMCP), mcp)
	writeParams(t, vocoder.StreamPath(dir, fixtureBasename, vocoder.TagLF0), lf0)
	writeParams(t, vocoder.StreamPath(dir, fixtureBasename, vocoder.TagLF0Itp), lf0i)
	writeParams(t, vocoder.StreamPath(dir, fixtureBasename, vocoder.TagVF), f.vf)
	writeParams(t, vocoder.StreamPath(dir, fixtureBasename, vocoder.TagVFItp), vfi)
}

// writeCorpus lays out the full fixture corpus in a temp dir and
// returns its root plus the speaker and basename lists.
func writeCorpus(t *testing.T) (root string, speakers, basenames []string) {
	t.Helper()
	root = t.TempDir()
	for spk, f := range fixtureSpeakers {
		writeSpeaker(t, root, spk, f)
		speakers = append(speakers, f.name)
	}
	basenames = []string{fixtureBasename}

	lists := map[string][]string{
		vocoder.SpeakersListFile:  speakers,
		vocoder.BasenamesListFile: basenames,
	}
	for name, entries := range lists {
		content := strings.Join(entries, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, speakers, basenames
}
