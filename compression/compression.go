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

// Package compression implements the O-RAN fronthaul IQ compression
// methods, most importantly block floating point (BFP).
//
// Compression operates on resource blocks of 12 complex samples
// (24 fixed-point words). A scalar reference strategy handles every
// supported bit width; wide-lane batched strategies exist purely for
// throughput and produce byte-identical output. The strategy is chosen
// once at construction, either automatically from the detected CPU
// capability level or pinned by the caller.
package compression

import (
	"fmt"

	"github.com/ofh-go/fronthaul/bitpack"
)

const (
	// REsPerRB is the number of complex samples in one resource block.
	REsPerRB = 12
	// wordsPerRB is the number of packed fixed-point words per block.
	wordsPerRB = 2 * REsPerRB
)

// Params selects a compression method and sample bit width. Params
// are immutable for the lifetime of a message.
type Params struct {
	Method   Method `json:"method"`
	BitWidth uint8  `json:"bit_width"`
}

// Validate reports whether p names a representable configuration.
// An unsupported-but-valid wire method passes Validate; the factories
// reject it instead.
func (p Params) Validate() error {
	if p.Method == methodReserved || p.Method >= methodMax {
		return fmt.Errorf("invalid compression method %d", uint8(p.Method))
	}
	if p.BitWidth < bitpack.MinWidth || p.BitWidth > bitpack.MaxWidth {
		return fmt.Errorf("bit width %d out of range [%d, %d]",
			p.BitWidth, bitpack.MinWidth, bitpack.MaxWidth)
	}
	return nil
}

// RBSize returns the compressed size of one resource block in bytes.
func (p Params) RBSize() int {
	n := bitpack.Size(wordsPerRB, uint(p.BitWidth))
	if p.Method.HasExponent() {
		n++
	}
	return n
}

// Size returns the compressed size of nRB resource blocks in bytes.
func (p Params) Size(nRB int) int {
	return nRB * p.RBSize()
}

// Compressor compresses quantized IQ samples, one resource block at a
// time. Implementations are immutable after construction and safe for
// concurrent use.
type Compressor interface {
	// Name is the name of the selected strategy.
	Name() string
	// Compress encodes src, a multiple of 24 fixed-point words,
	// into dst. dst must hold exactly Size(len(src)/24) bytes;
	// mis-sized buffers are a caller bug and panic.
	Compress(dst []byte, src []int16)
}

// Decompressor reconstructs complex samples from compressed blocks.
// Implementations are immutable after construction and safe for
// concurrent use.
type Decompressor interface {
	// Name is the name of the selected strategy.
	// See also Compressor.Name.
	Name() string
	// Decompress decodes src, a whole number of compressed resource
	// blocks, into dst. dst must hold exactly 12 samples per block;
	// mis-sized buffers are a caller bug and panic.
	Decompress(dst []complex64, src []byte)
}

// NewCompressor returns a Compressor for p using the given capability
// level. LevelDetect selects the best level the CPU supports; pinning
// a level the CPU does not support is a configuration error.
func NewCompressor(p Params, l Level) (Compressor, error) {
	l, err := resolve(p, l)
	if err != nil {
		return nil, err
	}
	switch p.Method {
	case MethodNone:
		return noneCodec{width: uint(p.BitWidth)}, nil
	case MethodBFP, MethodBFPSelective:
		ref := bfpRef{width: uint(p.BitWidth)}
		switch l {
		case LevelWide2:
			return bfpWide2{ref: ref}, nil
		case LevelWide1:
			return bfpWide1{ref: ref}, nil
		default:
			return ref, nil
		}
	default:
		return nil, fmt.Errorf("compression method %s not supported", p.Method)
	}
}

// NewDecompressor returns a Decompressor for p using the given
// capability level.
// See also NewCompressor.
func NewDecompressor(p Params, l Level) (Decompressor, error) {
	l, err := resolve(p, l)
	if err != nil {
		return nil, err
	}
	switch p.Method {
	case MethodNone:
		return noneCodec{width: uint(p.BitWidth)}, nil
	case MethodBFP, MethodBFPSelective:
		ref := bfpRef{width: uint(p.BitWidth)}
		switch l {
		case LevelWide2:
			return bfpWide2{ref: ref}, nil
		case LevelWide1:
			return bfpWide1{ref: ref}, nil
		default:
			return ref, nil
		}
	default:
		return nil, fmt.Errorf("compression method %s not supported", p.Method)
	}
}

func resolve(p Params, l Level) (Level, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	detected := DetectLevel()
	if l == LevelDetect {
		return detected, nil
	}
	if l > detected {
		return 0, fmt.Errorf("capability level %s not supported by this cpu (detected %s)", l, detected)
	}
	return l, nil
}

func checkSizes(nbytes, nwords int, p Params) int {
	if nwords%wordsPerRB != 0 {
		panic(fmt.Sprintf("sample count %d not a whole number of resource blocks", nwords))
	}
	nRB := nwords / wordsPerRB
	if nbytes != p.Size(nRB) {
		panic(fmt.Sprintf("compressed buffer is %d bytes, want %d for %d blocks", nbytes, p.Size(nRB), nRB))
	}
	return nRB
}
