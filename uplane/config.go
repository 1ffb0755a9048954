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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/ofh-go/fronthaul/compression"
)

// DefaultMaxSections bounds the sections accepted per message when
// the configuration does not say otherwise.
const DefaultMaxSections = 32

// Config is the shared, read-only configuration of a Decoder or
// Encoder. It is safe to share across goroutines once validated.
type Config struct {
	// Direction this endpoint handles: a decoder rejects messages
	// of the other direction, an encoder stamps it on every header.
	Direction Direction `json:"direction"`

	// FilterIndex stamped on encoded headers. Decoders accept any
	// non-reserved filter index.
	FilterIndex uint8 `json:"filter_index"`

	// EAxC identifies the antenna-carrier stream this codec serves.
	// It is carried by the surrounding eCPRI transport, not by the
	// user-plane payload; it is configuration here so the transport
	// and the codec are set up from one place.
	EAxC uint16 `json:"eaxc"`

	// Numerology is the subcarrier-spacing index mu; slots per
	// subframe is 1<<mu.
	Numerology uint8 `json:"numerology"`

	// SymbolsPerSlot is 14 for the normal cyclic prefix. Zero
	// selects 14.
	SymbolsPerSlot uint8 `json:"symbols_per_slot"`

	// PRBCount is the number of PRBs the radio unit is configured
	// for; a section with a zero PRB count on the wire covers all
	// of them.
	PRBCount uint16 `json:"prb_count"`

	// MaxSections bounds the sections per message. Zero selects
	// DefaultMaxSections.
	MaxSections int `json:"max_sections"`

	// DynamicHeader selects reading/writing compression parameters
	// per section on the wire instead of using Compression below.
	DynamicHeader bool `json:"dynamic_header"`

	// Compression is the static compression configuration. In
	// dynamic mode the encoder still uses it to build sections; the
	// decoder takes parameters from the wire.
	Compression compression.Params `json:"compression"`

	// Level pins a compression strategy by name ("scalar", "wide1",
	// "wide2"); empty or "auto" probes the hardware.
	Level string `json:"level"`

	// IQScaling is the linear scale applied when quantizing
	// samples. Zero selects 1.0.
	IQScaling float32 `json:"iq_scaling"`
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.SymbolsPerSlot == 0 {
		out.SymbolsPerSlot = 14
	}
	if out.MaxSections == 0 {
		out.MaxSections = DefaultMaxSections
	}
	if out.IQScaling == 0 {
		out.IQScaling = 1.0
	}
	return out
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if c.Numerology > 4 {
		return fmt.Errorf("numerology %d out of range [0, 4]", c.Numerology)
	}
	if c.SymbolsPerSlot > 14 {
		return fmt.Errorf("symbols per slot %d out of range [1, 14]", c.SymbolsPerSlot)
	}
	if c.PRBCount == 0 || c.PRBCount > maxStartPRB+1 {
		return fmt.Errorf("prb count %d out of range [1, %d]", c.PRBCount, maxStartPRB+1)
	}
	if c.FilterIndex >= reservedFilterIndex {
		return fmt.Errorf("filter index %d is reserved", c.FilterIndex)
	}
	if c.MaxSections < 0 {
		return fmt.Errorf("max sections %d is negative", c.MaxSections)
	}
	if err := c.Compression.Validate(); err != nil {
		return err
	}
	if _, err := compression.ParseLevel(c.Level); err != nil {
		return err
	}
	return nil
}

// SlotsPerSubframe returns the slot count implied by the numerology.
func (c *Config) SlotsPerSubframe() uint8 {
	return 1 << c.Numerology
}

// ParseConfig unmarshals a YAML document into a Config, applies
// defaults, and validates it.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}
