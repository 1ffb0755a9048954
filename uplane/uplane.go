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

// Package uplane parses and builds O-RAN fronthaul user-plane
// messages: the 4-byte message header, section headers, the static or
// dynamic compression header, and the compressed IQ payload.
//
// A Decoder turns one received byte buffer into a Message or a typed
// rejection; an Encoder fragments one symbol's samples into one or
// more wire messages. Both are immutable after construction and safe
// for concurrent use; all per-call state lives on the caller's stack
// or in caller-supplied buffers.
package uplane

import (
	"encoding/json"
	"fmt"

	"github.com/ofh-go/fronthaul/compression"
)

// ProtocolVersion is the single user-plane protocol version this
// implementation speaks.
const ProtocolVersion = 1

const (
	// HeaderSize is the wire size of the message header.
	HeaderSize = 4

	sectionHeaderSize = 4
	compHeaderSize    = 2
	compLenSize       = 2

	maxSectionID = 1<<12 - 1
	maxStartPRB  = 1<<10 - 1
	maxNumPRB    = 1<<8 - 1

	// filter index 0xF is reserved by the protocol
	reservedFilterIndex = 0xF

	maxSubframe = 9
)

// Direction distinguishes uplink (radio to baseband) from downlink
// messages.
type Direction uint8

const (
	Downlink Direction = iota
	Uplink
)

func (d Direction) String() string {
	if d == Uplink {
		return "uplink"
	}
	return "downlink"
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "uplink":
		*d = Uplink
	case "downlink":
		*d = Downlink
	default:
		return fmt.Errorf("unknown direction %q", s)
	}
	return nil
}

// Header is the decoded 4-byte user-plane message header.
type Header struct {
	Direction   Direction
	Version     uint8
	FilterIndex uint8
	Frame       uint8
	Subframe    uint8
	Slot        uint8
	Symbol      uint8
}

// put encodes h into b, which must hold HeaderSize bytes.
func (h *Header) put(b []byte) {
	b[0] = byte(h.Direction)<<7 | (h.Version&0x7)<<4 | h.FilterIndex&0xF
	b[1] = h.Frame
	b[2] = h.Subframe<<4 | (h.Slot>>2)&0xF
	b[3] = h.Slot<<6 | h.Symbol&0x3F
}

// parseHeader decodes the fixed bit layout; validation is the
// Decoder's job.
func parseHeader(b []byte) Header {
	return Header{
		Direction:   Direction(b[0] >> 7),
		Version:     b[0] >> 4 & 0x7,
		FilterIndex: b[0] & 0xF,
		Frame:       b[1],
		Subframe:    b[2] >> 4,
		Slot:        (b[2]&0xF)<<2 | b[3]>>6,
		Symbol:      b[3] & 0x3F,
	}
}

// Section is one decoded section: a contiguous PRB range and its
// samples.
type Section struct {
	SectionID uint16
	// EveryRBUsed reports that all PRBs of the range carry data
	// (the wire carries the inverted bit).
	EveryRBUsed bool
	// CurrentSymbol reports that the section applies to the symbol
	// in the message header (the wire carries the inverted bit).
	CurrentSymbol bool
	StartPRB      uint16
	NumPRB        uint16
	Params        compression.Params
	Samples       []complex64
}

// Message is one decoded user-plane message. It is rebuilt from
// scratch per Decode call and owned by the caller.
type Message struct {
	Header   Header
	Sections []Section
}

// Deliver writes the decoded sections into a resource grid at their
// PRB offsets.
func (m *Message) Deliver(port uint8, w GridWriter) {
	for i := range m.Sections {
		s := &m.Sections[i]
		w.WriteSymbol(port, m.Header.Symbol, int(s.StartPRB)*compression.REsPerRB, s.Samples)
	}
}
