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
	"testing"

	"github.com/ofh-go/fronthaul/compression"
)

const sampleConfig = `
direction: uplink
filter_index: 1
eaxc: 2
numerology: 1
prb_count: 51
dynamic_header: false
compression:
  method: bfp
  bit_width: 9
iq_scaling: 0.9
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Direction != Uplink {
		t.Errorf("direction = %s", cfg.Direction)
	}
	if cfg.PRBCount != 51 || cfg.EAxC != 2 {
		t.Errorf("prb_count %d eaxc %d", cfg.PRBCount, cfg.EAxC)
	}
	if cfg.Compression != (compression.Params{Method: compression.MethodBFP, BitWidth: 9}) {
		t.Errorf("compression = %+v", cfg.Compression)
	}
	// defaults
	if cfg.SymbolsPerSlot != 14 || cfg.MaxSections != DefaultMaxSections {
		t.Errorf("defaults not applied: %d symbols, %d sections", cfg.SymbolsPerSlot, cfg.MaxSections)
	}
	if cfg.SlotsPerSubframe() != 2 {
		t.Errorf("slots per subframe = %d", cfg.SlotsPerSubframe())
	}
}

func TestParseConfigRejects(t *testing.T) {
	bad := []string{
		"direction: sideways\nprb_count: 4\ncompression: {method: bfp, bit_width: 9}",
		"direction: uplink\nprb_count: 0\ncompression: {method: bfp, bit_width: 9}",
		"direction: uplink\nprb_count: 4\ncompression: {method: bfp, bit_width: 17}",
		"direction: uplink\nprb_count: 4\ncompression: {method: zip, bit_width: 9}",
		"direction: uplink\nnumerology: 9\nprb_count: 4\ncompression: {method: bfp, bit_width: 9}",
		"direction: uplink\nprb_count: 4\nlevel: avx9\ncompression: {method: bfp, bit_width: 9}",
		"direction: uplink\nprb_count: 4\nunknown_field: 1\ncompression: {method: bfp, bit_width: 9}",
	}
	for _, doc := range bad {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Errorf("accepted %q", doc)
		}
	}
}
