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

import "github.com/ofh-go/fronthaul/compression"

// GridReader hands the encoder one symbol of frequency-domain samples
// for an antenna port.
type GridReader interface {
	Symbol(port, symbol uint8) []complex64
}

// GridWriter receives decoded samples at a resource-element offset
// within a symbol.
type GridWriter interface {
	WriteSymbol(port, symbol uint8, startRE int, samples []complex64)
}

// Grid is an in-memory resource grid covering one slot. It implements
// GridReader and GridWriter for tests and offline tooling; a real
// deployment substitutes the baseband's grid.
type Grid struct {
	symbols int
	res     int
	data    []complex64
}

// NewGrid returns a grid of ports x symbols, each symbol holding
// prbs*12 resource elements.
func NewGrid(ports, symbols, prbs int) *Grid {
	res := prbs * compression.REsPerRB
	return &Grid{
		symbols: symbols,
		res:     res,
		data:    make([]complex64, ports*symbols*res),
	}
}

func (g *Grid) slot(port, symbol uint8) []complex64 {
	off := (int(port)*g.symbols + int(symbol)) * g.res
	return g.data[off : off+g.res]
}

// Symbol returns the samples of one symbol. The slice aliases the
// grid's storage.
func (g *Grid) Symbol(port, symbol uint8) []complex64 {
	return g.slot(port, symbol)
}

// WriteSymbol copies samples into the symbol at the given offset.
func (g *Grid) WriteSymbol(port, symbol uint8, startRE int, samples []complex64) {
	copy(g.slot(port, symbol)[startRE:], samples)
}
