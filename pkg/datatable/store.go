package datatable

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tfglib/tfglib/pkg/frame"
)

// Binary format magic bytes and version for the datatable container.
var storeMagic = [4]byte{'S', '2', 'S', 'D'}

const storeVersion uint32 = 1

// Container format:
//
//	[4B magic "S2SD"] [4B version]
//	gzip (best compression) over:
//	  [4B max_seq_length]
//	  [matrix speakers_max] [matrix speakers_min]
//	  [matrix src_datatable] [matrix trg_datatable]
//	  [matrix src_mask] [matrix trg_mask]
//
// where a matrix is [4B rows] [4B cols] [rows·cols × 8B float64].
// Everything is little-endian. float64 cells round-trip bit-exact.

// Save writes the datatable to path. The file handle is opened,
// written and closed within this call.
func (d *Datatable) Save(path string) error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("datatable: save %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("datatable: save: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := bw.Write(storeMagic[:]); err != nil {
		return fmt.Errorf("datatable: save magic: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, storeVersion); err != nil {
		return fmt.Errorf("datatable: save version: %w", err)
	}

	zw, err := gzip.NewWriterLevel(bw, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("datatable: save: %w", err)
	}

	le := binary.LittleEndian
	if err := binary.Write(zw, le, uint32(d.MaxSeqLength)); err != nil {
		return fmt.Errorf("datatable: save max_seq_length: %w", err)
	}
	for _, m := range []struct {
		name string
		mat  *frame.Matrix
	}{
		{"speakers_max", d.SpeakersMax},
		{"speakers_min", d.SpeakersMin},
		{"src_datatable", d.Source},
		{"trg_datatable", d.Target},
		{"src_mask", d.SourceMask},
		{"trg_mask", d.TargetMask},
	} {
		if err := writeMatrix(zw, m.mat); err != nil {
			return fmt.Errorf("datatable: save %s: %w", m.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("datatable: save: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("datatable: save: %w", err)
	}
	return f.Close()
}

// Load reads a datatable container back from path. The result is the
// identical 7-field datatable that was saved: arrays are bit-exact and
// the attributes match exactly.
func Load(path string) (*Datatable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datatable: load: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("datatable: load magic: %w", err)
	}
	if magic != storeMagic {
		return nil, fmt.Errorf("datatable: %s: invalid magic %q", path, magic[:])
	}
	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("datatable: load version: %w", err)
	}
	if version != storeVersion {
		return nil, fmt.Errorf("datatable: unsupported container version %d (want %d)", version, storeVersion)
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("datatable: load: %w", err)
	}
	defer zr.Close()

	var maxSeq uint32
	if err := binary.Read(zr, binary.LittleEndian, &maxSeq); err != nil {
		return nil, fmt.Errorf("datatable: load max_seq_length: %w", err)
	}

	d := &Datatable{MaxSeqLength: int(maxSeq)}
	for _, m := range []struct {
		name string
		dst  **frame.Matrix
	}{
		{"speakers_max", &d.SpeakersMax},
		{"speakers_min", &d.SpeakersMin},
		{"src_datatable", &d.Source},
		{"trg_datatable", &d.Target},
		{"src_mask", &d.SourceMask},
		{"trg_mask", &d.TargetMask},
	} {
		mat, err := readMatrix(zr)
		if err != nil {
			return nil, fmt.Errorf("datatable: load %s: %w", m.name, err)
		}
		*m.dst = mat
	}

	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("datatable: load %s: %w", path, err)
	}
	return d, nil
}

// SaveDatatable assembles the corpus under root and persists it to
// outPath, returning the assembled datatable as well.
func SaveDatatable(root, outPath string) (*Datatable, error) {
	d, err := ConstructDatatable(root)
	if err != nil {
		return nil, err
	}
	if err := d.Save(outPath); err != nil {
		return nil, err
	}
	return d, nil
}

func writeMatrix(w io.Writer, m *frame.Matrix) error {
	le := binary.LittleEndian
	if err := binary.Write(w, le, uint32(m.Rows())); err != nil {
		return err
	}
	if err := binary.Write(w, le, uint32(m.Cols())); err != nil {
		return err
	}
	return binary.Write(w, le, m.Raw())
}

func readMatrix(r io.Reader) (*frame.Matrix, error) {
	le := binary.LittleEndian
	var rows, cols uint32
	if err := binary.Read(r, le, &rows); err != nil {
		return nil, err
	}
	if err := binary.Read(r, le, &cols); err != nil {
		return nil, err
	}
	m := frame.New(int(rows), int(cols))
	if err := binary.Read(r, le, m.Raw()); err != nil {
		return nil, err
	}
	return m, nil
}
