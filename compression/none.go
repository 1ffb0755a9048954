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
	"github.com/ofh-go/fronthaul/quant"
)

// noneCodec bit-packs samples at the configured width without a
// per-block scale. Callers guarantee the samples fit the width; in
// practice the method is used with the full 16-bit width.
type noneCodec struct {
	width uint
}

func (n noneCodec) Name() string { return "none" }

func (n noneCodec) Compress(dst []byte, src []int16) {
	p := Params{Method: MethodNone, BitWidth: uint8(n.width)}
	checkSizes(len(dst), len(src), p)
	bitpack.Pack(dst, src, n.width)
}

func (n noneCodec) Decompress(dst []complex64, src []byte) {
	p := Params{Method: MethodNone, BitWidth: uint8(n.width)}
	nRB := checkSizes(len(src), 2*len(dst), p)
	u := make([]int16, wordsPerRB)
	rbSize := p.RBSize()
	for rb := 0; rb < nRB; rb++ {
		bitpack.Unpack(u, src[rb*rbSize:(rb+1)*rbSize], n.width)
		out := dst[rb*REsPerRB : (rb+1)*REsPerRB]
		for i := 0; i < REsPerRB; i++ {
			out[i] = complex(quant.ToFloat(u[2*i], 0), quant.ToFloat(u[2*i+1], 0))
		}
	}
}
