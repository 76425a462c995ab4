package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The .npy codec covers the one layout the index persists: a C-ordered,
// little-endian float32 matrix.

var npyMagic = []byte("\x93NUMPY")

const npyAlign = 64

var (
	npyDescr   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	npyFortran = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	npyShape   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// writeNPY writes rows as a version 1.0 .npy file of dtype <f4 and shape
// (len(rows), dim).
func writeNPY(w io.Writer, rows [][]float32, dim int) error {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", len(rows), dim)
	// magic(6) + version(2) + header length(2) + header + padding + '\n',
	// padded the way numpy.save does it.
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	header += strings.Repeat(" ", npyAlign-total%npyAlign) + "\n"
	if len(header) > math.MaxUint16 {
		return fmt.Errorf("npy header too long: %d bytes", len(header))
	}

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	var hlen [2]byte
	binary.LittleEndian.PutUint16(hlen[:], uint16(len(header)))
	bw.Write(hlen[:])
	bw.WriteString(header)

	var buf [4]byte
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrShapeMismatch, i, len(row), dim)
		}
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			bw.Write(buf[:])
		}
	}
	return bw.Flush()
}

// readNPY decodes a 2-D little-endian float32 .npy stream. Any deviation
// from that layout, or a short or oversized payload, is ErrCorruptIndex.
func readNPY(r io.Reader) ([][]float32, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read npy: %w", err)
	}
	if len(data) < len(npyMagic)+4 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return nil, 0, fmt.Errorf("%w: missing npy magic", ErrCorruptIndex)
	}

	major := data[6]
	pos := 8
	var headerLen int
	switch major {
	case 1:
		headerLen = int(binary.LittleEndian.Uint16(data[pos:]))
		pos += 2
	case 2, 3:
		if len(data) < pos+4 {
			return nil, 0, fmt.Errorf("%w: truncated npy header", ErrCorruptIndex)
		}
		headerLen = int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	default:
		return nil, 0, fmt.Errorf("%w: unsupported npy version %d.%d", ErrCorruptIndex, major, data[7])
	}
	if len(data) < pos+headerLen {
		return nil, 0, fmt.Errorf("%w: truncated npy header", ErrCorruptIndex)
	}
	header := string(data[pos : pos+headerLen])
	pos += headerLen

	rows, cols, err := parseNPYHeader(header)
	if err != nil {
		return nil, 0, err
	}

	payload := data[pos:]
	if err := checkPayload(rows, cols, len(payload)); err != nil {
		return nil, 0, err
	}

	out := make([][]float32, rows)
	for i := range out {
		row := make([]float32, cols)
		for j := range row {
			off := (i*cols + j) * 4
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off:]))
		}
		out[i] = row
	}
	return out, cols, nil
}

// checkPayload compares the header shape with the payload size without
// multiplying untrusted dimensions.
func checkPayload(rows, cols, size int) error {
	mismatch := func() error {
		return fmt.Errorf("%w: shape (%d, %d) does not match %d bytes of float32 data",
			ErrCorruptIndex, rows, cols, size)
	}
	if size%4 != 0 {
		return mismatch()
	}
	n := size / 4
	if cols == 0 {
		if rows != 0 || n != 0 {
			return mismatch()
		}
		return nil
	}
	if rows > n/cols || rows*cols != n {
		return mismatch()
	}
	return nil
}

func parseNPYHeader(header string) (int, int, error) {
	m := npyDescr.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: npy header has no descr", ErrCorruptIndex)
	}
	if m[1] != "<f4" {
		return 0, 0, fmt.Errorf("%w: unsupported dtype %q, expected '<f4'", ErrCorruptIndex, m[1])
	}

	m = npyFortran.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: npy header has no fortran_order", ErrCorruptIndex)
	}
	if m[1] == "True" {
		return 0, 0, fmt.Errorf("%w: fortran-ordered arrays are not supported", ErrCorruptIndex)
	}

	m = npyShape.FindStringSubmatch(header)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: npy header has no shape", ErrCorruptIndex)
	}
	var dims []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("%w: invalid shape %q", ErrCorruptIndex, m[1])
		}
		dims = append(dims, n)
	}
	if len(dims) != 2 {
		return 0, 0, fmt.Errorf("%w: expected a 2-D array, got shape (%s)", ErrCorruptIndex, m[1])
	}
	return dims[0], dims[1], nil
}
