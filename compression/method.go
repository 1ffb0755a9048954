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
	"encoding/json"
	"fmt"
)

// Method identifies an IQ compression method. The numeric value is
// the 4-bit method id carried in the dynamic compression header;
// id 0 is reserved on the wire and has no Method value.
type Method uint8

const (
	methodReserved Method = iota

	// MethodNone carries fixed-point samples bit-packed at the
	// configured width with no per-block scale.
	MethodNone

	// MethodBFP is block floating point: one shared exponent byte
	// per resource block followed by the packed mantissas.
	MethodBFP

	MethodBlockScaling
	MethodMuLaw
	MethodModScaled

	// MethodBFPSelective is MethodBFP with a per-section length
	// field in the framing.
	MethodBFPSelective

	MethodModSelective

	methodMax
)

var methodNames = [...]string{
	MethodNone:         "none",
	MethodBFP:          "bfp",
	MethodBlockScaling: "block-scaling",
	MethodMuLaw:        "mu-law",
	MethodModScaled:    "mod-scaled",
	MethodBFPSelective: "bfp-selective",
	MethodModSelective: "mod-selective",
}

func (m Method) String() string {
	if m > methodReserved && m < methodMax {
		return methodNames[m]
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// ParseMethod converts a method name from configuration into a Method.
func ParseMethod(s string) (Method, error) {
	for m := MethodNone; m < methodMax; m++ {
		if methodNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown compression method %q", s)
}

// MethodFromWire converts the 4-bit wire id into a Method.
// The second result is false for the reserved id 0 and for
// unassigned ids.
func MethodFromWire(id uint8) (Method, bool) {
	m := Method(id)
	if m == methodReserved || m >= methodMax {
		return 0, false
	}
	return m, true
}

// WireID returns the 4-bit id of m in the dynamic compression header.
func (m Method) WireID() uint8 { return uint8(m) }

// HasExponent reports whether each compressed resource block starts
// with a shared exponent byte.
func (m Method) HasExponent() bool {
	return m == MethodBFP || m == MethodBFPSelective
}

// HasLengthField reports whether sections using m carry the optional
// two-byte compression length field.
func (m Method) HasLengthField() bool {
	return m == MethodBFPSelective || m == MethodModSelective
}

func (m Method) MarshalJSON() ([]byte, error) {
	if m == methodReserved || m >= methodMax {
		return nil, fmt.Errorf("cannot marshal %s", m)
	}
	return json.Marshal(m.String())
}

func (m *Method) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
