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
	"errors"
	"testing"

	"github.com/ofh-go/fronthaul/compression"
)

func uplinkConfig() Config {
	return Config{
		Direction:   Uplink,
		FilterIndex: 1,
		Numerology:  1,
		PRBCount:    4,
		Compression: compression.Params{Method: compression.MethodBFP, BitWidth: 9},
		Level:       "scalar",
	}
}

// testHeader returns valid header bytes for uplinkConfig.
func testHeader() []byte {
	h := Header{Direction: Uplink, Version: ProtocolVersion, FilterIndex: 1,
		Frame: 5, Subframe: 3, Slot: 1, Symbol: 1}
	var b [HeaderSize]byte
	h.put(b[:])
	return b[:]
}

// testSection returns the bytes of one section covering nPRB blocks
// (wire value wirePRB) at startPRB, with a payload of compressed
// zero samples.
func testSection(t *testing.T, cfg Config, startPRB uint16, wirePRB uint8, nPRB int) []byte {
	t.Helper()
	b := []byte{0x00, byte(startPRB>>8) & 0x3, byte(startPRB), wirePRB}
	comp, err := compression.NewCompressor(cfg.Compression, compression.LevelScalar)
	if err != nil {
		t.Fatal(err)
	}
	payload := make([]byte, cfg.Compression.Size(nPRB))
	comp.Compress(payload, make([]int16, nPRB*24))
	return append(b, payload...)
}

func TestDecodeHeaderOnly(t *testing.T) {
	d, err := NewDecoder(uplinkConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Decode(testHeader()); !errors.Is(err, ErrNoSections) {
		t.Fatalf("header-only buffer: %v, want ErrNoSections", err)
	}
}

func TestDecodeShortHeader(t *testing.T) {
	d, err := NewDecoder(uplinkConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Decode([]byte{0x91, 0x05}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("2-byte buffer: %v, want ErrMalformed", err)
	}
}

func TestDecodeHeaderRejects(t *testing.T) {
	d, err := NewDecoder(uplinkConfig())
	if err != nil {
		t.Fatal(err)
	}
	mutate := func(f func(h *Header)) []byte {
		h := Header{Direction: Uplink, Version: ProtocolVersion, FilterIndex: 1,
			Frame: 5, Subframe: 3, Slot: 1, Symbol: 1}
		f(&h)
		var b [HeaderSize]byte
		h.put(b[:])
		return b[:]
	}
	cases := []struct {
		name string
		buf  []byte
		want error
	}{
		{"downlink", mutate(func(h *Header) { h.Direction = Downlink }), ErrMalformed},
		{"version", mutate(func(h *Header) { h.Version = 2 }), ErrMalformed},
		{"filter", mutate(func(h *Header) { h.FilterIndex = reservedFilterIndex }), ErrMalformed},
		{"subframe", mutate(func(h *Header) { h.Subframe = 10 }), ErrOutOfRange},
		{"slot", mutate(func(h *Header) { h.Slot = 2 }), ErrOutOfRange}, // numerology 1: slots 0..1
		{"symbol", mutate(func(h *Header) { h.Symbol = 14 }), ErrOutOfRange},
	}
	for _, c := range cases {
		if _, err := d.Decode(c.buf); !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestDecodeZeroPRB(t *testing.T) {
	cfg := uplinkConfig()
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// wire nof_prb = 0 with a nonzero start_prb: the special case
	// forces start_prb to 0 and covers all configured PRBs
	buf := append(testHeader(), testSection(t, cfg, 2, 0, int(cfg.PRBCount))...)
	msg, err := d.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.Sections) != 1 {
		t.Fatalf("decoded %d sections, want 1", len(msg.Sections))
	}
	s := &msg.Sections[0]
	if s.StartPRB != 0 || s.NumPRB != cfg.PRBCount {
		t.Fatalf("zero-PRB section = [%d, +%d), want [0, +%d)", s.StartPRB, s.NumPRB, cfg.PRBCount)
	}
	if len(s.Samples) != int(cfg.PRBCount)*compression.REsPerRB {
		t.Fatalf("section has %d samples", len(s.Samples))
	}
}

func TestDecodeReservedMethod(t *testing.T) {
	cfg := uplinkConfig()
	cfg.DynamicHeader = true
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// section header + compression header with method nibble 0
	buf := append(testHeader(), 0x00, 0x00, 0x00, 0x01, 0x90, 0x00)
	if _, err := d.Decode(buf); !errors.Is(err, ErrMalformed) {
		t.Fatalf("reserved method: %v, want ErrMalformed", err)
	}
}

func TestDecodeDynamicHeader(t *testing.T) {
	cfg := uplinkConfig()
	cfg.DynamicHeader = true
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// one PRB at width 9 (0x9 high nibble), bfp (wire id 2)
	params := compression.Params{Method: compression.MethodBFP, BitWidth: 9}
	comp, _ := compression.NewCompressor(params, compression.LevelScalar)
	payload := make([]byte, params.RBSize())
	comp.Compress(payload, make([]int16, 24))
	buf := append(testHeader(), 0x00, 0x00, 0x00, 0x01, 0x92, 0x00)
	buf = append(buf, payload...)
	msg, err := d.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := msg.Sections[0].Params; got != params {
		t.Fatalf("decoded params %+v, want %+v", got, params)
	}
}

func TestDecodeWidthNibbleZero(t *testing.T) {
	cfg := uplinkConfig()
	cfg.DynamicHeader = true
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// width nibble 0 means 16 bits; method none (wire id 1)
	params := compression.Params{Method: compression.MethodNone, BitWidth: 16}
	comp, _ := compression.NewCompressor(params, compression.LevelScalar)
	payload := make([]byte, params.RBSize())
	comp.Compress(payload, make([]int16, 24))
	buf := append(testHeader(), 0x00, 0x00, 0x00, 0x01, 0x01, 0x00)
	buf = append(buf, payload...)
	msg, err := d.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := msg.Sections[0].Params.BitWidth; got != 16 {
		t.Fatalf("width nibble 0 decoded as %d, want 16", got)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	cfg := uplinkConfig()
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	full := testSection(t, cfg, 0, 1, 1)

	// only a truncated section: incomplete
	buf := append(testHeader(), full[:len(full)-5]...)
	if _, err := d.Decode(buf); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("truncated only section: %v, want ErrIncomplete", err)
	}

	// a complete section followed by a truncated one: keep the first
	buf = append(testHeader(), full...)
	buf = append(buf, testSection(t, cfg, 1, 1, 1)[:7]...)
	msg, err := d.Decode(buf)
	if err != nil {
		t.Fatalf("complete+truncated: %v", err)
	}
	if len(msg.Sections) != 1 {
		t.Fatalf("kept %d sections, want 1", len(msg.Sections))
	}
}

func TestDecodeTooManySections(t *testing.T) {
	cfg := uplinkConfig()
	cfg.MaxSections = 2
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	buf := testHeader()
	for i := 0; i < 3; i++ {
		buf = append(buf, testSection(t, cfg, uint16(i), 1, 1)...)
	}
	if _, err := d.Decode(buf); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("3 sections with bound 2: %v, want ErrOutOfRange", err)
	}
}

func TestDecodePRBRangeBeyondConfig(t *testing.T) {
	cfg := uplinkConfig()
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// start 3 + 2 PRBs > 4 configured
	buf := append(testHeader(), testSection(t, cfg, 3, 2, 2)...)
	if _, err := d.Decode(buf); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("PRB range beyond config: %v, want ErrOutOfRange", err)
	}
}

func TestDecodeSelectiveLength(t *testing.T) {
	cfg := uplinkConfig()
	cfg.Compression.Method = compression.MethodBFPSelective
	d, err := NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	params := cfg.Compression
	comp, _ := compression.NewCompressor(params, compression.LevelScalar)
	payload := make([]byte, params.RBSize())
	comp.Compress(payload, make([]int16, 24))
	sec := []byte{0x00, 0x00, 0x00, 0x01, // section header, 1 PRB
		0x00, byte(len(payload))} // udCompLen
	sec = append(sec, payload...)
	msg, err := d.Decode(append(testHeader(), sec...))
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.Sections[0].Samples) != compression.REsPerRB {
		t.Fatalf("selective section has %d samples", len(msg.Sections[0].Samples))
	}

	// without the length field the payload size check comes up short
	if _, err := d.Decode(append(testHeader(), sec[:4]...)); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("missing length: %v, want ErrIncomplete", err)
	}
}

func TestNewDecoderRejectsBadConfig(t *testing.T) {
	cfg := uplinkConfig()
	cfg.Compression.BitWidth = 0
	if _, err := NewDecoder(cfg); err == nil {
		t.Error("bit width 0 accepted")
	}
	cfg = uplinkConfig()
	cfg.Level = "avx9"
	if _, err := NewDecoder(cfg); err == nil {
		t.Error("unknown level accepted")
	}
	cfg = uplinkConfig()
	cfg.Numerology = 7
	if _, err := NewDecoder(cfg); err == nil {
		t.Error("numerology 7 accepted")
	}
}
