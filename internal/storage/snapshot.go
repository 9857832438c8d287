package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/emsim/internal/field"
)

var snapshotMagic = [4]byte{'E', 'M', 'S', 'F'}

const snapshotVersion uint32 = 1

// maxSnapshotCells bounds the grid a snapshot header may declare, 2 GiB
// of samples per field.
const (
	maxSnapshotCells = 1 << 27
	snapshotChunk    = 1 << 16
)

var ErrBadSnapshot = errors.New("storage: not an emsim field snapshot")

// snapshotCells multiplies the header dimensions, reporting false when the
// product exceeds maxSnapshotCells.
func snapshotCells(dims [3]uint32) (int, bool) {
	cells := uint64(1)
	for _, d := range dims {
		if d == 0 || cells > maxSnapshotCells/uint64(d) {
			return 0, false
		}
		cells *= uint64(d)
	}
	return int(cells), true
}

// WriteSnapshot encodes em little-endian: magic, version, three uint32
// dimensions, then every electric and every magnetic sample as four float32.
func WriteSnapshot(w io.Writer, em *field.EMField) error {
	if err := em.CheckCongruent(); err != nil {
		return err
	}
	size := em.Size()
	header := struct {
		Magic   [4]byte
		Version uint32
		Size    [3]uint32
	}{snapshotMagic, snapshotVersion, [3]uint32{uint32(size.X), uint32(size.Y), uint32(size.Z)}}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, em.Electric.Data()); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, em.Magnetic.Data()); err != nil {
		return err
	}
	return bw.Flush()
}

func ReadSnapshot(r io.Reader) (*field.EMField, error) {
	br := bufio.NewReader(r)
	var header struct {
		Magic   [4]byte
		Version uint32
		Size    [3]uint32
	}
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if header.Magic != snapshotMagic || header.Version != snapshotVersion {
		return nil, ErrBadSnapshot
	}

	for _, d := range header.Size {
		if d == 0 {
			return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, field.ErrDegenerateGrid)
		}
	}
	cells, ok := snapshotCells(header.Size)
	if !ok {
		return nil, fmt.Errorf("%w: grid %dx%dx%d exceeds %d cells",
			ErrBadSnapshot, header.Size[0], header.Size[1], header.Size[2], maxSnapshotCells)
	}
	size := field.NewSize(int(header.Size[0]), int(header.Size[1]), int(header.Size[2]))

	// Samples are read in chunks so a truncated file fails before the
	// whole grid is allocated.
	chunk := make([]field.Vec4, min(cells, snapshotChunk))
	read := func() (*field.VectorField, error) {
		data := make([]field.Vec4, 0, len(chunk))
		for len(data) < cells {
			n := min(cells-len(data), len(chunk))
			if err := binary.Read(br, binary.LittleEndian, chunk[:n]); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
			}
			data = append(data, chunk[:n]...)
		}
		return field.NewWithData(size, data)
	}
	e, err := read()
	if err != nil {
		return nil, err
	}
	m, err := read()
	if err != nil {
		return nil, err
	}
	return field.NewEMFieldFrom(e, m)
}

func SaveSnapshot(path string, em *field.EMField) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(f, em); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadSnapshot(path string) (*field.EMField, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
