package vocoder

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeParams writes a little-endian float32 parameter file.
func writeParams(t *testing.T, path string, values []float32) {
	t.Helper()
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lf0.dat")
	writeParams(t, path, []float32{1.5, -2.25, 0, 4.125, 5, 6.5})

	m, err := ParseFile(2, path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 3 || m.Cols() != 2 {
		t.Fatalf("got %dx%d, want 3x2", m.Rows(), m.Cols())
	}
	want := [][]float64{{1.5, -2.25}, {0, 4.125}, {5, 6.5}}
	for i, row := range want {
		for j, v := range row {
			if m.At(i, j) != v {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, m.At(i, j), v)
			}
		}
	}
}

func TestParseFileBadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dat")
	// 6 floats cannot be frames of width 4.
	writeParams(t, path, []float32{1, 2, 3, 4, 5, 6})

	_, err := ParseFile(4, path)
	if !errors.Is(err, ErrRecordSize) {
		t.Fatalf("got %v, want ErrRecordSize", err)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(1, filepath.Join(t.TempDir(), "nope.dat"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileInvalidWidth(t *testing.T) {
	if _, err := ParseFile(0, "whatever.dat"); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestStreamPath(t *testing.T) {
	dir := SpeakerDir("corpus", "spk1")
	want := filepath.Join("corpus", "vocoded_s2s", "spk1")
	if dir != want {
		t.Fatalf("SpeakerDir = %q, want %q", dir, want)
	}
	got := StreamPath(dir, "utt01", TagLF0Itp)
	want = filepath.Join(want, "utt01.lf0.i.dat")
	if got != want {
		t.Fatalf("StreamPath = %q, want %q", got, want)
	}
}

func TestReadList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"trailing newline", "spk1\nspk2\n", []string{"spk1", "spk2"}},
		{"no trailing newline", "spk1\nspk2", []string{"spk1", "spk2"}},
		// Blank lines are positional entries and must be preserved.
		{"blank line kept", "spk1\n\nspk2\n", []string{"spk1", "", "spk2"}},
		{"trailing blank kept", "spk1\n\n", []string{"spk1", ""}},
		{"crlf", "spk1\r\nspk2\r\n", []string{"spk1", "spk2"}},
		{"empty file", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.list")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadList(path)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
