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

// Package lanes provides selected word-lane intrinsics emulated in
// portable Go. Operand semantics follow the corresponding x86
// instructions, including wrap-around of VPABSW at the most negative
// word, so that callers behave identically whether the work is done
// here or in vector registers.
package lanes

import "fmt"

type Vec16x32 [32]int16 // 512-bit register of word lanes
type Vec16x16 [16]int16 // 256-bit register of word lanes
type Vec32x16 [16]int32 // 512-bit register of dword lanes

// VMOVDQU16Z loads up to 32 words from p under mask k, zeroing
// unselected lanes. Lanes beyond len(p) must be masked off.
func VMOVDQU16Z(p []int16, k uint32) Vec16x32 {
	var r Vec16x32
	for i := range r {
		if k&(1<<i) != 0 {
			r[i] = p[i]
		}
	}
	return r
}

// VMOVDQU16 stores the first len(p) lanes of v to p.
func VMOVDQU16(v *Vec16x32, p []int16) {
	copy(p, v[:])
}

// VPABSW computes the per-lane absolute value. The most negative word
// wraps to itself (0x8000), as on hardware.
func VPABSW(a, r *Vec16x32) {
	for i := range r {
		if a[i] < 0 {
			r[i] = -a[i]
		} else {
			r[i] = a[i]
		}
	}
}

// VPMAXUW computes the per-lane unsigned maximum.
func VPMAXUW(a, b, r *Vec16x32) {
	for i := range r {
		if uint16(a[i]) >= uint16(b[i]) {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
}

// VPSRAW arithmetic-shifts every lane right by imm.
func VPSRAW(imm uint8, a, r *Vec16x32) {
	for i := range r {
		r[i] = a[i] >> imm
	}
}

// VPHMAXUW reduces a register to the unsigned maximum of the lanes
// selected by mask k. This horizontal form has no single-instruction
// x86 equivalent; hardware kernels use a shuffle-and-max ladder.
func VPHMAXUW(a *Vec16x32, k uint32) uint16 {
	var m uint16
	for i := range a {
		if k&(1<<i) != 0 && uint16(a[i]) > m {
			m = uint16(a[i])
		}
	}
	return m
}

// VPMOVSXWD sign-extends the low 16 word lanes of a into dword lanes.
func VPMOVSXWD(a *Vec16x32, r *Vec32x16) {
	for i := range r {
		r[i] = int32(a[i])
	}
}

// VPMOVSXWDH sign-extends the high 16 word lanes of a into dword
// lanes. Hardware kernels reach the high half with VEXTRACTI64X4
// first; the emulation folds the extract in.
func VPMOVSXWDH(a *Vec16x32, r *Vec32x16) {
	for i := range r {
		r[i] = int32(a[i+16])
	}
}

// VPSLLD shifts every dword lane left by imm.
func VPSLLD(imm uint8, a, r *Vec32x16) {
	for i := range r {
		r[i] = a[i] << imm
	}
}

func (v Vec16x32) String() string {
	return fmt.Sprintf("%04x", [32]int16(v))
}

// Halves returns the 256-bit halves of v.
func (v Vec16x32) Halves() (lo, hi Vec16x16) {
	copy(lo[:], v[:16])
	copy(hi[:], v[16:])
	return lo, hi
}

// VMOVDQU16Z256 is the 256-bit form of VMOVDQU16Z.
func VMOVDQU16Z256(p []int16, k uint16) Vec16x16 {
	var r Vec16x16
	for i := range r {
		if k&(1<<i) != 0 {
			r[i] = p[i]
		}
	}
	return r
}

// VPABSW256 is the 256-bit form of VPABSW.
func VPABSW256(a, r *Vec16x16) {
	for i := range r {
		if a[i] < 0 {
			r[i] = -a[i]
		} else {
			r[i] = a[i]
		}
	}
}

// VPSRAW256 is the 256-bit form of VPSRAW.
func VPSRAW256(imm uint8, a, r *Vec16x16) {
	for i := range r {
		r[i] = a[i] >> imm
	}
}

// VPHMAXUW256 is the 256-bit form of VPHMAXUW.
func VPHMAXUW256(a *Vec16x16, k uint16) uint16 {
	var m uint16
	for i := range a {
		if k&(1<<i) != 0 && uint16(a[i]) > m {
			m = uint16(a[i])
		}
	}
	return m
}

// VMOVDQU16Store256 stores the first len(p) lanes of v to p.
func VMOVDQU16Store256(v *Vec16x16, p []int16) {
	copy(p, v[:])
}
