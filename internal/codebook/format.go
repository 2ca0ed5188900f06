package codebook

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/errs"
	"github.com/iochoa/qvz/internal/quantize"
)

// asciiOffset is the byte value added to every integer the text format
// packs into a printable character — the Phred+33-style offset the
// original codebook file used for both context symbols and reconstruction
// codes.
const asciiOffset = 33

// MaxLineLength bounds every line Write emits and every line Read accepts,
// mirroring the original format's MAX_CODEBOOK_LINE_LENGTH.
const MaxLineLength = 4096

// Write serializes cb in the codebook text format (§6): a header line,
// then for each cluster and column the input union size, one line per
// context holding (u+33, s_lo, s_hi, α_q8), and the lo/hi
// reconstruction-symbol maps as raw ASCII-offset byte strings.
func Write(w io.Writer, cb *Codebook) error {
	if cb.ClusterCount() > maxClusters {
		return errors.Errorf("codebook: %d clusters exceeds the %d-cluster limit", cb.ClusterCount(), maxClusters)
	}
	bw := bufio.NewWriter(w)

	header := strconv.FormatFloat(cb.Rate, 'g', -1, 64) + " " +
		strconv.Itoa(cb.ClusterCount()) + " " +
		strconv.Itoa(cb.Columns) + " " +
		strconv.FormatUint(uint64(cb.Seed), 10) + "\n"
	if _, err := bw.WriteString(header); err != nil {
		return errors.Wrap(err, "codebook: write header")
	}

	for _, set := range cb.Sets {
		for _, col := range set.Columns {
			if err := writeColumn(bw, col); err != nil {
				return err
			}
		}
	}
	return errors.Wrap(bw.Flush(), "codebook: flush")
}

func writeColumn(bw *bufio.Writer, col *Column) error {
	contexts := maps.Keys(col.entries)
	slices.Sort(contexts)

	if _, err := bw.WriteString(strconv.Itoa(len(contexts)) + "\n"); err != nil {
		return errors.Wrap(err, "codebook: write union size")
	}
	for _, ctx := range contexts {
		e := col.entries[ctx]
		line := strconv.Itoa(ctx+asciiOffset) + " " +
			strconv.Itoa(e.Lo.States()) + " " +
			strconv.Itoa(e.Hi.States()) + " " +
			strconv.Itoa(int(e.RatioQ8)) + "\n"
		if len(line) > MaxLineLength {
			return errors.Errorf("codebook: context line exceeds %d bytes", MaxLineLength)
		}
		if _, err := bw.WriteString(line); err != nil {
			return errors.Wrap(err, "codebook: write context line")
		}
		if err := writeCodes(bw, e.Lo.Codes()); err != nil {
			return err
		}
		if err := writeCodes(bw, e.Hi.Codes()); err != nil {
			return err
		}
	}
	return nil
}

func writeCodes(bw *bufio.Writer, codes []int) error {
	buf := make([]byte, len(codes)+1)
	for i, c := range codes {
		buf[i] = byte(c + asciiOffset)
	}
	buf[len(codes)] = '\n'
	if len(buf) > MaxLineLength {
		return errors.Errorf("codebook: reconstruction map exceeds %d bytes", MaxLineLength)
	}
	_, err := bw.Write(buf)
	return errors.Wrap(err, "codebook: write reconstruction map")
}

// Read parses a codebook previously produced by Write. inputSize is N, the
// size of the quality-score alphabet the codebook was trained over. Neither
// the codebook body nor the compressed stream's header (§6) records it, so
// the caller supplies it.
func Read(r io.Reader, inputSize int) (*Codebook, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, MaxLineLength), MaxLineLength)

	if !sc.Scan() {
		return nil, errors.Wrap(scanErr(sc), "codebook: read header")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 4 {
		return nil, errors.Wrap(errs.ErrMalformedCodebook, "codebook: header field count")
	}
	rate, err := strconv.ParseFloat(fields[0], 64)
	clusterCount, err1 := strconv.Atoi(fields[1])
	columns, err2 := strconv.Atoi(fields[2])
	seed, err3 := strconv.ParseUint(fields[3], 10, 32)
	if err != nil || err1 != nil || err2 != nil || err3 != nil {
		return nil, errors.Wrap(errs.ErrMalformedCodebook, "codebook: header fields")
	}

	input := alphabet.New(inputSize)
	cb := &Codebook{
		Rate:      rate,
		InputSize: inputSize,
		Columns:   columns,
		Seed:      uint32(seed),
		Sets:      make([]*Set, clusterCount),
	}

	for ci := 0; ci < clusterCount; ci++ {
		set := &Set{Columns: make([]*Column, columns)}
		for c := 0; c < columns; c++ {
			col, err := readColumn(sc, input)
			if err != nil {
				return nil, errors.Wrapf(err, "codebook: cluster %d column %d", ci, c)
			}
			set.Columns[c] = col
		}
		cb.Sets[ci] = set
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "codebook: scan")
	}
	return cb, nil
}

func readColumn(sc *bufio.Scanner, input *alphabet.Alphabet) (*Column, error) {
	if !sc.Scan() {
		return nil, errors.Wrap(scanErr(sc), "read union size")
	}
	size, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, errors.Wrap(errs.ErrMalformedCodebook, "union size")
	}

	contexts := make([]int, 0, size)
	entries := make(map[int]*Entry, size)
	for i := 0; i < size; i++ {
		entry, ctx, err := readEntry(sc, input)
		if err != nil {
			return nil, errors.Wrapf(err, "context %d", i)
		}
		entries[ctx] = entry
		contexts = append(contexts, ctx)
	}
	return &Column{InputUnion: alphabet.FromSymbols(contexts), entries: entries}, nil
}

func readEntry(sc *bufio.Scanner, input *alphabet.Alphabet) (*Entry, int, error) {
	if !sc.Scan() {
		return nil, 0, errors.Wrap(scanErr(sc), "read context line")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 4 {
		return nil, 0, errors.Wrap(errs.ErrMalformedCodebook, "context field count")
	}
	uAscii, e1 := strconv.Atoi(fields[0])
	sLo, e2 := strconv.Atoi(fields[1])
	sHi, e3 := strconv.Atoi(fields[2])
	ratioQ8, e4 := strconv.Atoi(fields[3])
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return nil, 0, errors.Wrap(errs.ErrMalformedCodebook, "context fields")
	}
	ctx := uAscii - asciiOffset

	loCodes, err := readCodes(sc, input.Size())
	if err != nil {
		return nil, 0, errors.Wrap(err, "read lo map")
	}
	hiCodes, err := readCodes(sc, input.Size())
	if err != nil {
		return nil, 0, errors.Wrap(err, "read hi map")
	}

	lo := quantize.FromCodes(input, loCodes)
	hi := quantize.FromCodes(input, hiCodes)
	if lo.States() != sLo || hi.States() != sHi {
		return nil, 0, errors.Wrap(errs.ErrMalformedCodebook, "reconstruction map state count mismatch")
	}

	return &Entry{
		Lo:      lo,
		Hi:      hi,
		Ratio:   float64(ratioQ8) / 255,
		RatioQ8: uint8(ratioQ8),
	}, ctx, nil
}

func readCodes(sc *bufio.Scanner, n int) ([]int, error) {
	if !sc.Scan() {
		return nil, scanErr(sc)
	}
	line := sc.Bytes()
	if len(line) != n {
		return nil, errors.Wrap(errs.ErrMalformedCodebook, "reconstruction map length")
	}
	codes := make([]int, n)
	for i, b := range line {
		codes[i] = int(b) - asciiOffset
	}
	return codes, nil
}

func scanErr(sc *bufio.Scanner) error {
	if err := sc.Err(); err != nil {
		return err
	}
	return errs.ErrMalformedCodebook
}
