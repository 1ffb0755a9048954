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
	"github.com/ofh-go/fronthaul/bitpack"
	"github.com/ofh-go/fronthaul/internal/lanes"
	"github.com/ofh-go/fronthaul/quant"
)

// rbMask selects the 24 word lanes holding one resource block in a
// 512-bit register.
const rbMask = uint32(1)<<wordsPerRB - 1

// wideWidth reports whether the batched kernels special-case the
// given bit width. Other widths take the reference path.
func wideWidth(w uint) bool {
	switch w {
	case 8, 9, 12, 14, 16:
		return true
	}
	return false
}

// bfpWide2 processes four resource blocks per iteration over 512-bit
// word lanes. Output is byte-identical to bfpRef for every input.
type bfpWide2 struct {
	ref bfpRef
}

func (b bfpWide2) Name() string { return "bfp-wide2" }

func (b bfpWide2) Compress(dst []byte, src []int16) {
	w := b.ref.width
	if !wideWidth(w) {
		b.ref.Compress(dst, src)
		return
	}
	p := Params{Method: MethodBFP, BitWidth: uint8(w)}
	nRB := checkSizes(len(dst), len(src), p)
	rbSize := p.RBSize()
	const batch = 4
	rb := 0
	for ; rb+batch <= nRB; rb += batch {
		for i := 0; i < batch; i++ {
			compressRBWide(dst[(rb+i)*rbSize:(rb+i+1)*rbSize],
				src[(rb+i)*wordsPerRB:(rb+i+1)*wordsPerRB], w)
		}
	}
	// trailing blocks short of a full batch take the reference path
	for ; rb < nRB; rb++ {
		b.ref.compressRB(dst[rb*rbSize:(rb+1)*rbSize], src[rb*wordsPerRB:(rb+1)*wordsPerRB])
	}
}

func (b bfpWide2) Decompress(dst []complex64, src []byte) {
	w := b.ref.width
	if !wideWidth(w) {
		b.ref.Decompress(dst, src)
		return
	}
	p := Params{Method: MethodBFP, BitWidth: uint8(w)}
	nRB := checkSizes(len(src), 2*len(dst), p)
	rbSize := p.RBSize()
	const batch = 4
	rb := 0
	for ; rb+batch <= nRB; rb += batch {
		for i := 0; i < batch; i++ {
			decompressRBWide(dst[(rb+i)*REsPerRB:(rb+i+1)*REsPerRB],
				src[(rb+i)*rbSize:(rb+i+1)*rbSize], w)
		}
	}
	for ; rb < nRB; rb++ {
		b.ref.decompressRB(dst[rb*REsPerRB:(rb+1)*REsPerRB], src[rb*rbSize:(rb+1)*rbSize])
	}
}

// compressRBWide computes the exponent with a lane reduction and
// shifts all 24 words in two register ops.
func compressRBWide(dst []byte, src []int16, width uint) {
	v := lanes.VMOVDQU16Z(src, rbMask)
	var abs, sh lanes.Vec16x32
	lanes.VPABSW(&v, &abs)
	maxAbs := lanes.VPHMAXUW(&abs, rbMask)
	exp := bfpExponent(uint32(maxAbs), width)
	lanes.VPSRAW(exp, &v, &sh)
	var shifted [wordsPerRB]int16
	lanes.VMOVDQU16(&sh, shifted[:])
	dst[0] = exp
	bitpack.Pack(dst[1:], shifted[:], width)
}

// decompressRBWide widens and applies the block exponent in dword
// lanes; the final fixed-to-float conversion shares the scalar
// helper so results are bit-identical to the reference.
func decompressRBWide(dst []complex64, src []byte, width uint) {
	exp := src[0]
	var u [wordsPerRB]int16
	bitpack.Unpack(u[:], src[1:], width)
	v := lanes.VMOVDQU16Z(u[:], rbMask)
	var lo, hi lanes.Vec32x16
	lanes.VPMOVSXWD(&v, &lo)
	lanes.VPMOVSXWDH(&v, &hi)
	lanes.VPSLLD(exp, &lo, &lo)
	lanes.VPSLLD(exp, &hi, &hi)
	for i := 0; i < 8; i++ {
		dst[i] = complex(quant.FromFixed(lo[2*i]), quant.FromFixed(lo[2*i+1]))
	}
	for i := 0; i < 4; i++ {
		dst[8+i] = complex(quant.FromFixed(hi[2*i]), quant.FromFixed(hi[2*i+1]))
	}
}

// bfpWide1 processes two resource blocks per iteration over 256-bit
// word lanes, splitting each block 16+8 across two registers.
type bfpWide1 struct {
	ref bfpRef
}

func (b bfpWide1) Name() string { return "bfp-wide1" }

func (b bfpWide1) Compress(dst []byte, src []int16) {
	w := b.ref.width
	if !wideWidth(w) {
		b.ref.Compress(dst, src)
		return
	}
	p := Params{Method: MethodBFP, BitWidth: uint8(w)}
	nRB := checkSizes(len(dst), len(src), p)
	rbSize := p.RBSize()
	const batch = 2
	rb := 0
	for ; rb+batch <= nRB; rb += batch {
		for i := 0; i < batch; i++ {
			compressRBWide256(dst[(rb+i)*rbSize:(rb+i+1)*rbSize],
				src[(rb+i)*wordsPerRB:(rb+i+1)*wordsPerRB], w)
		}
	}
	for ; rb < nRB; rb++ {
		b.ref.compressRB(dst[rb*rbSize:(rb+1)*rbSize], src[rb*wordsPerRB:(rb+1)*wordsPerRB])
	}
}

func (b bfpWide1) Decompress(dst []complex64, src []byte) {
	// the 256-bit level gains nothing over the reference on the
	// decompression path; batching applies to compression only
	b.ref.Decompress(dst, src)
}

const rbTailMask = uint16(1)<<(wordsPerRB-16) - 1

func compressRBWide256(dst []byte, src []int16, width uint) {
	vlo := lanes.VMOVDQU16Z256(src[:16], 0xffff)
	vhi := lanes.VMOVDQU16Z256(src[16:], rbTailMask)
	var alo, ahi, slo, shi lanes.Vec16x16
	lanes.VPABSW256(&vlo, &alo)
	lanes.VPABSW256(&vhi, &ahi)
	maxAbs := lanes.VPHMAXUW256(&alo, 0xffff)
	if m := lanes.VPHMAXUW256(&ahi, rbTailMask); m > maxAbs {
		maxAbs = m
	}
	exp := bfpExponent(uint32(maxAbs), width)
	lanes.VPSRAW256(exp, &vlo, &slo)
	lanes.VPSRAW256(exp, &vhi, &shi)
	var shifted [wordsPerRB]int16
	lanes.VMOVDQU16Store256(&slo, shifted[:16])
	lanes.VMOVDQU16Store256(&shi, shifted[16:])
	dst[0] = exp
	bitpack.Pack(dst[1:], shifted[:], width)
}
