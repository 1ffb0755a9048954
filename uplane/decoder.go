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

package uplane

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ofh-go/fronthaul/compression"
)

// Decoder decodes user-plane messages for one direction and one
// radio-unit configuration. The only state shared across calls is the
// configuration and the selected compression strategy, both read-only
// after construction.
type Decoder struct {
	cfg    Config
	level  compression.Level
	static compression.Decompressor // nil in dynamic mode
}

// NewDecoder validates cfg and selects the compression strategy.
func NewDecoder(cfg Config) (*Decoder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := compression.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	d := &Decoder{cfg: cfg, level: level}
	if !cfg.DynamicHeader {
		d.static, err = compression.NewDecompressor(cfg.Compression, level)
		if err != nil {
			return nil, err
		}
	} else {
		// fail pinned-but-unsupported levels at construction,
		// not on the first message
		if _, err := compression.NewDecompressor(
			compression.Params{Method: compression.MethodBFP, BitWidth: 16}, level); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Decode parses one message from buf. It returns either a populated
// Message with at least one section, or a rejection error; there is
// no partial success. buf is not retained.
func (d *Decoder) Decode(buf []byte) (*Message, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d header bytes, need %d", ErrMalformed, len(buf), HeaderSize)
	}
	hdr := parseHeader(buf)
	if err := d.checkHeader(&hdr); err != nil {
		return nil, err
	}
	msg := &Message{Header: hdr}
	rest := buf[HeaderSize:]
	for len(rest) > 0 {
		sec, n, err := d.decodeSection(rest)
		if err != nil {
			if errors.Is(err, ErrIncomplete) && len(msg.Sections) > 0 {
				// keep the sections already decoded
				break
			}
			return nil, err
		}
		if len(msg.Sections) >= d.cfg.MaxSections {
			return nil, fmt.Errorf("%w: more than %d sections", ErrOutOfRange, d.cfg.MaxSections)
		}
		msg.Sections = append(msg.Sections, *sec)
		rest = rest[n:]
	}
	if len(msg.Sections) == 0 {
		return nil, ErrNoSections
	}
	return msg, nil
}

func (d *Decoder) checkHeader(h *Header) error {
	if h.Direction != d.cfg.Direction {
		return fmt.Errorf("%w: direction %s, decoder handles %s", ErrMalformed, h.Direction, d.cfg.Direction)
	}
	if h.Version != ProtocolVersion {
		return fmt.Errorf("%w: protocol version %d, support %d", ErrMalformed, h.Version, ProtocolVersion)
	}
	if h.FilterIndex == reservedFilterIndex {
		return fmt.Errorf("%w: reserved filter index", ErrMalformed)
	}
	if h.Subframe > maxSubframe {
		return fmt.Errorf("%w: subframe %d", ErrOutOfRange, h.Subframe)
	}
	if h.Slot >= d.cfg.SlotsPerSubframe() {
		return fmt.Errorf("%w: slot %d with %d slots per subframe", ErrOutOfRange, h.Slot, d.cfg.SlotsPerSubframe())
	}
	if h.Symbol >= d.cfg.SymbolsPerSlot {
		return fmt.Errorf("%w: symbol %d with %d symbols per slot", ErrOutOfRange, h.Symbol, d.cfg.SymbolsPerSlot)
	}
	return nil
}

// decodeSection parses one section from b, returning it and the bytes
// consumed.
func (d *Decoder) decodeSection(b []byte) (*Section, int, error) {
	if len(b) < sectionHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d section header bytes, need %d", ErrIncomplete, len(b), sectionHeaderSize)
	}
	sec := &Section{
		SectionID:     uint16(b[0])<<4 | uint16(b[1])>>4,
		EveryRBUsed:   b[1]&0x08 == 0,
		CurrentSymbol: b[1]&0x04 == 0,
		StartPRB:      uint16(b[1]&0x03)<<8 | uint16(b[2]),
		NumPRB:        uint16(b[3]),
	}
	if sec.NumPRB == 0 {
		// protocol special case: all configured PRBs
		sec.StartPRB = 0
		sec.NumPRB = d.cfg.PRBCount
	}
	n := sectionHeaderSize

	if d.cfg.DynamicHeader {
		if len(b) < n+compHeaderSize {
			return nil, 0, fmt.Errorf("%w: missing compression header", ErrIncomplete)
		}
		method, ok := compression.MethodFromWire(b[n] & 0xF)
		if !ok {
			return nil, 0, fmt.Errorf("%w: reserved compression method %d", ErrMalformed, b[n]&0xF)
		}
		width := b[n] >> 4
		if width == 0 {
			width = 16
		}
		sec.Params = compression.Params{Method: method, BitWidth: width}
		n += compHeaderSize
	} else {
		sec.Params = d.cfg.Compression
	}

	if sec.Params.Method.HasLengthField() {
		if len(b) < n+compLenSize {
			return nil, 0, fmt.Errorf("%w: missing compression length", ErrIncomplete)
		}
		// the payload length is recomputed from the parameters;
		// the wire field is consumed, not trusted
		_ = binary.BigEndian.Uint16(b[n:])
		n += compLenSize
	}

	if int(sec.StartPRB)+int(sec.NumPRB) > int(d.cfg.PRBCount) {
		return nil, 0, fmt.Errorf("%w: PRBs [%d, %d) with %d configured",
			ErrOutOfRange, sec.StartPRB, sec.StartPRB+sec.NumPRB, d.cfg.PRBCount)
	}

	nRB := int(sec.NumPRB)
	payload := sec.Params.Size(nRB)
	if len(b) < n+payload {
		return nil, 0, fmt.Errorf("%w: %d payload bytes, need %d for %d PRBs",
			ErrIncomplete, len(b)-n, payload, nRB)
	}

	dec := d.static
	if d.cfg.DynamicHeader {
		var err error
		dec, err = compression.NewDecompressor(sec.Params, d.level)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	sec.Samples = make([]complex64, nRB*compression.REsPerRB)
	dec.Decompress(sec.Samples, b[n:n+payload])
	return sec, n + payload, nil
}
