// Copyright 2025 Fronthaul Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package capture reads and writes fronthaul frame capture files for
// offline analysis. A capture is a short plain header identifying the
// session followed by a zstd stream of length-prefixed frames, each
// guarded by a SipHash-2-4 checksum.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

var magic = [4]byte{'O', 'F', 'H', 'C'}

const (
	version      = 1
	frameHdrSize = 4 + 8

	// maxFrameSize bounds a single captured frame; jumbo Ethernet
	// frames stay far below it
	maxFrameSize = 1 << 16
)

// fixed checksum key; the hash detects storage corruption, it is not
// an authenticator
const (
	sipK0 = 0x6f68665f63617074
	sipK1 = 0x7572655f6c6f6721
)

// ErrCorrupt reports a frame whose length or checksum does not match
// its contents.
var ErrCorrupt = errors.New("capture: corrupt frame")

// Writer appends frames to a capture stream. Not safe for concurrent
// use; captures are written from the transport's receive loop.
type Writer struct {
	zw      *zstd.Encoder
	session uuid.UUID
}

// NewWriter starts a new capture session on w.
func NewWriter(w io.Writer) (*Writer, error) {
	session := uuid.New()
	var hdr [len(magic) + 1 + 16]byte
	copy(hdr[:], magic[:])
	hdr[len(magic)] = version
	copy(hdr[len(magic)+1:], session[:])
	if _, err := w.Write(hdr[:]); err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &Writer{zw: zw, session: session}, nil
}

// Session returns the id stamped on this capture.
func (w *Writer) Session() uuid.UUID { return w.session }

// WriteFrame appends one raw frame.
func (w *Writer) WriteFrame(b []byte) error {
	if len(b) > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds %d", len(b), maxFrameSize)
	}
	var hdr [frameHdrSize]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(len(b)))
	binary.BigEndian.PutUint64(hdr[4:], siphash.Hash(sipK0, sipK1, b))
	if _, err := w.zw.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.zw.Write(b)
	return err
}

// Close flushes the compressed stream. It does not close the
// underlying writer.
func (w *Writer) Close() error { return w.zw.Close() }

// Reader iterates the frames of a capture stream.
type Reader struct {
	zr      *zstd.Decoder
	session uuid.UUID
}

// NewReader validates the capture header and prepares to read frames.
func NewReader(r io.Reader) (*Reader, error) {
	var hdr [len(magic) + 1 + 16]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading capture header: %w", err)
	}
	if [4]byte(hdr[:4]) != magic {
		return nil, fmt.Errorf("not a capture file (magic % x)", hdr[:4])
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("capture version %d, support %d", hdr[4], version)
	}
	session, err := uuid.FromBytes(hdr[5:])
	if err != nil {
		return nil, err
	}
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &Reader{zr: zr, session: session}, nil
}

// Session returns the id stamped on this capture.
func (r *Reader) Session() uuid.UUID { return r.session }

// Next returns the next frame, or io.EOF at the clean end of the
// stream. The returned slice is owned by the caller.
func (r *Reader) Next() ([]byte, error) {
	var hdr [frameHdrSize]byte
	if _, err := io.ReadFull(r.zr, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: truncated frame header", ErrCorrupt)
	}
	length := binary.BigEndian.Uint32(hdr[0:])
	if length > maxFrameSize {
		return nil, fmt.Errorf("%w: frame length %d", ErrCorrupt, length)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r.zr, b); err != nil {
		return nil, fmt.Errorf("%w: truncated frame body", ErrCorrupt)
	}
	if got := siphash.Hash(sipK0, sipK1, b); got != binary.BigEndian.Uint64(hdr[4:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return b, nil
}

// Close releases the decompressor.
func (r *Reader) Close() { r.zr.Close() }
