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

package compression

import (
	"math/bits"

	"github.com/ofh-go/fronthaul/bitpack"
	"github.com/ofh-go/fronthaul/ints"
	"github.com/ofh-go/fronthaul/quant"
)

// bfpExponent returns the minimal non-negative exponent such that
// every sample of magnitude maxAbs shifts into width-bit two's
// complement. maxAbs is the 32-bit absolute value; |math.MinInt16| =
// 32768 saturates to 32767 because -2^15 >> (16-width) = -2^(width-1)
// is still representable. The result never exceeds 16-width.
func bfpExponent(maxAbs uint32, width uint) uint8 {
	if maxAbs > 32767 {
		maxAbs = 32767
	}
	sig := 32 - bits.LeadingZeros32(maxAbs)
	if e := sig - int(width) + 1; e > 0 {
		return uint8(e)
	}
	return 0
}

// bfpRef is the reference scalar BFP strategy. It is correct for
// every supported bit width; the batched strategies delegate to it
// for widths they do not special-case and for trailing blocks.
type bfpRef struct {
	width uint
}

func (b bfpRef) Name() string { return "bfp-scalar" }

func (b bfpRef) Compress(dst []byte, src []int16) {
	p := Params{Method: MethodBFP, BitWidth: uint8(b.width)}
	nRB := checkSizes(len(dst), len(src), p)
	rbSize := p.RBSize()
	for rb := 0; rb < nRB; rb++ {
		b.compressRB(dst[rb*rbSize:(rb+1)*rbSize], src[rb*wordsPerRB:(rb+1)*wordsPerRB])
	}
}

func (b bfpRef) compressRB(dst []byte, src []int16) {
	var maxAbs uint32
	for _, v := range src {
		if a := ints.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	exp := bfpExponent(maxAbs, b.width)
	var shifted [wordsPerRB]int16
	for i, v := range src {
		shifted[i] = v >> exp
	}
	dst[0] = exp
	bitpack.Pack(dst[1:], shifted[:], b.width)
}

func (b bfpRef) Decompress(dst []complex64, src []byte) {
	p := Params{Method: MethodBFP, BitWidth: uint8(b.width)}
	nRB := checkSizes(len(src), 2*len(dst), p)
	rbSize := p.RBSize()
	for rb := 0; rb < nRB; rb++ {
		b.decompressRB(dst[rb*REsPerRB:(rb+1)*REsPerRB], src[rb*rbSize:(rb+1)*rbSize])
	}
}

func (b bfpRef) decompressRB(dst []complex64, src []byte) {
	exp := src[0]
	var u [wordsPerRB]int16
	bitpack.Unpack(u[:], src[1:], b.width)
	for i := 0; i < REsPerRB; i++ {
		dst[i] = complex(quant.ToFloat(u[2*i], exp), quant.ToFloat(u[2*i+1], exp))
	}
}
