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

import "errors"

// Decode and encode outcomes. The core never logs or retries; it
// returns one of these (wrapped with detail) and the caller decides
// whether to count or drop. A rejected message is dropped whole;
// there is no partial delivery of its sections.
var (
	// ErrIncomplete means the buffer ended before the structure it
	// promised; with a streamed transport the caller may wait for
	// more data.
	ErrIncomplete = errors.New("incomplete message")

	// ErrMalformed means a structurally invalid field, such as a
	// reserved method or filter index. The message is unsalvageable.
	ErrMalformed = errors.New("malformed message")

	// ErrOutOfRange means a structurally valid field outside the
	// configured range, such as a bad subframe or slot.
	ErrOutOfRange = errors.New("field out of configured range")

	// ErrNoSections means the stream was exhausted with zero
	// sections decoded.
	ErrNoSections = errors.New("no valid section")

	// ErrShortBuffer means an output fragment cannot hold even one
	// compressed resource block.
	ErrShortBuffer = errors.New("buffer too small for one resource block")
)
