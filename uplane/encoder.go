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
	"fmt"
	"sync/atomic"

	"github.com/ofh-go/fronthaul/compression"
	"github.com/ofh-go/fronthaul/ints"
	"github.com/ofh-go/fronthaul/quant"
)

// SlotContext carries the timing fields stamped on every message
// built for one symbol.
type SlotContext struct {
	Frame    uint8
	Subframe uint8
	Slot     uint8
	Symbol   uint8
}

// Encoder builds user-plane messages for one direction and one
// radio-unit configuration. The section id counter is the only
// mutable state; it sequences sections for debugging and is not a
// correctness requirement.
type Encoder struct {
	cfg   Config
	comp  compression.Compressor
	quant quant.Quantizer
	sid   atomic.Uint32
}

// NewEncoder validates cfg and selects the compression strategy.
func NewEncoder(cfg Config) (*Encoder, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, err := compression.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	comp, err := compression.NewCompressor(cfg.Compression, level)
	if err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg, comp: comp, quant: quant.New(cfg.IQScaling)}, nil
}

// overhead is the per-message byte count before the payload.
func (e *Encoder) overhead() int {
	n := HeaderSize + sectionHeaderSize
	if e.cfg.DynamicHeader {
		n += compHeaderSize
	}
	if e.cfg.Compression.Method.HasLengthField() {
		n += compLenSize
	}
	return n
}

// EncodeSymbol compresses one symbol's samples into as many messages
// as the pool's buffer capacity dictates, invoking emit for each
// completed message. Fragmentation is greedy: each message carries
// the largest PRB range that fits, so start_prb increases
// monotonically across the emitted messages.
//
// emit receives a buffer obtained from pool; ownership transfers to
// the callee. On error the messages already emitted stand; nothing
// is rolled back.
func (e *Encoder) EncodeSymbol(sc SlotContext, samples []complex64, pool BufferPool, emit func([]byte) error) error {
	total := int(e.cfg.PRBCount)
	if len(samples) != total*compression.REsPerRB {
		return fmt.Errorf("symbol has %d samples, configuration requires %d",
			len(samples), total*compression.REsPerRB)
	}
	words := make([]int16, 2*len(samples))
	e.quant.ToFixedComplex(words, samples)

	rbSize := e.cfg.Compression.RBSize()
	overhead := e.overhead()
	start := 0
	for start < total {
		buf := pool.Get()
		space := cap(buf) - len(buf)
		n := (space - overhead) / rbSize
		if n <= 0 {
			pool.Put(buf)
			return fmt.Errorf("%w: %d bytes of space, need %d", ErrShortBuffer, space, overhead+rbSize)
		}
		n = ints.Min(n, total-start)
		wirePRB := n
		if n > maxNumPRB {
			if start == 0 && n == total {
				wirePRB = 0 // all configured PRBs
			} else {
				n = maxNumPRB
				wirePRB = n
			}
		}
		msg := buf[:len(buf)+overhead+n*rbSize]
		e.buildMessage(msg[len(buf):], sc, uint16(start), uint16(n), uint8(wirePRB),
			words[start*2*compression.REsPerRB:(start+n)*2*compression.REsPerRB])
		if err := emit(msg); err != nil {
			return err
		}
		start += n
	}
	return nil
}

// EncodeSymbolFrom reads the symbol from a resource grid and encodes
// it.
func (e *Encoder) EncodeSymbolFrom(g GridReader, port uint8, sc SlotContext, pool BufferPool, emit func([]byte) error) error {
	return e.EncodeSymbol(sc, g.Symbol(port, sc.Symbol), pool, emit)
}

func (e *Encoder) buildMessage(dst []byte, sc SlotContext, startPRB, numPRB uint16, wirePRB uint8, words []int16) {
	hdr := Header{
		Direction:   e.cfg.Direction,
		Version:     ProtocolVersion,
		FilterIndex: e.cfg.FilterIndex,
		Frame:       sc.Frame,
		Subframe:    sc.Subframe,
		Slot:        sc.Slot,
		Symbol:      sc.Symbol,
	}
	hdr.put(dst)
	n := HeaderSize

	sid := uint16(e.sid.Add(1)-1) & maxSectionID
	dst[n] = byte(sid >> 4)
	dst[n+1] = byte(sid&0xF)<<4 | byte(startPRB>>8)&0x3
	dst[n+2] = byte(startPRB)
	dst[n+3] = wirePRB
	n += sectionHeaderSize

	p := e.cfg.Compression
	if e.cfg.DynamicHeader {
		width := p.BitWidth
		if width == 16 {
			width = 0
		}
		dst[n] = width<<4 | p.Method.WireID()
		dst[n+1] = 0
		n += compHeaderSize
	}
	if p.Method.HasLengthField() {
		binary.BigEndian.PutUint16(dst[n:], uint16(p.Size(int(numPRB))))
		n += compLenSize
	}
	e.comp.Compress(dst[n:], words)
}
