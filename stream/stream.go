// Package stream implements §6's compressed-stream framing: a fixed-width
// header (record count, column count, cluster count, codebook offset),
// followed by the serialized codebook block, followed by the raw
// arithmetic-coded body. Line parsing and record-block I/O are a
// collaborator's job per §6 — this package only owns the container.
package stream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/iochoa/qvz/internal/codebook"
)

// Header is the stream's fixed-width preamble.
type Header struct {
	RecordCount    uint32
	Columns        uint32
	Clusters       uint32
	CodebookOffset uint64 // byte offset, from the start of the file, of the codebook block
}

// headerByteSize is the header's wire size: three uint32 fields plus one
// uint64 field, bit-packed with no padding.
const headerByteSize = 4 + 4 + 4 + 8

// WriteHeader writes h as four fixed-width big-endian bit fields.
func WriteHeader(w io.Writer, h Header) error {
	bw := bitio.NewWriter(w)
	if err := bw.WriteBits(uint64(h.RecordCount), 32); err != nil {
		return errors.Wrap(err, "stream: write record count")
	}
	if err := bw.WriteBits(uint64(h.Columns), 32); err != nil {
		return errors.Wrap(err, "stream: write column count")
	}
	if err := bw.WriteBits(uint64(h.Clusters), 32); err != nil {
		return errors.Wrap(err, "stream: write cluster count")
	}
	if err := bw.WriteBits(h.CodebookOffset, 64); err != nil {
		return errors.Wrap(err, "stream: write codebook offset")
	}
	return errors.Wrap(bw.Close(), "stream: flush header")
}

// ReadHeader reads a Header previously written by WriteHeader.
func ReadHeader(r io.Reader) (Header, error) {
	br := bitio.NewReader(r)
	recordCount, err := br.ReadBits(32)
	if err != nil {
		return Header{}, errors.Wrap(err, "stream: read record count")
	}
	columns, err := br.ReadBits(32)
	if err != nil {
		return Header{}, errors.Wrap(err, "stream: read column count")
	}
	clusters, err := br.ReadBits(32)
	if err != nil {
		return Header{}, errors.Wrap(err, "stream: read cluster count")
	}
	offset, err := br.ReadBits(64)
	if err != nil {
		return Header{}, errors.Wrap(err, "stream: read codebook offset")
	}
	return Header{
		RecordCount:    uint32(recordCount),
		Columns:        uint32(columns),
		Clusters:       uint32(clusters),
		CodebookOffset: offset,
	}, nil
}

// WriteFile writes a complete stream: header, codebook block, then body.
// h.CodebookOffset is overwritten with the computed value before writing.
func WriteFile(w io.Writer, h Header, cb *codebook.Codebook, body []byte) error {
	var cbBuf bytes.Buffer
	if err := codebook.Write(&cbBuf, cb); err != nil {
		return errors.Wrap(err, "stream: serialize codebook")
	}
	h.CodebookOffset = headerByteSize

	if err := WriteHeader(w, h); err != nil {
		return err
	}
	if _, err := w.Write(cbBuf.Bytes()); err != nil {
		return errors.Wrap(err, "stream: write codebook block")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "stream: write body")
	}
	return nil
}

// ReadFile reads a complete stream previously written by WriteFile,
// returning the header, the parsed codebook, and the remaining body bytes.
// inputSize is N, the quality-score alphabet size the codebook was trained
// over (known to the caller independently of this stream, same as
// internal/codebook.Read).
func ReadFile(r io.Reader, inputSize int) (Header, *codebook.Codebook, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, nil, errors.Wrap(err, "stream: read")
	}
	h, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		return Header{}, nil, nil, err
	}
	rest := data[headerByteSize:]
	cb, err := codebook.Read(bytes.NewReader(rest), inputSize)
	if err != nil {
		return Header{}, nil, nil, errors.Wrap(err, "stream: read codebook block")
	}
	// codebook.Read buffers past its last line, so the body starts after the
	// codebook's own line count: a header line, then per cluster and column
	// a union-size line plus three lines a context.
	lines := 1
	for _, set := range cb.Sets {
		for _, col := range set.Columns {
			lines += 1 + 3*col.InputUnion.Size()
		}
	}
	for ; lines > 0; lines-- {
		rest = rest[bytes.IndexByte(rest, '\n')+1:]
	}
	return h, cb, rest, nil
}
