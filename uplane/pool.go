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

// BufferPool provides scoped byte buffers for encoded messages. Get
// returns an empty slice whose capacity bounds the message size; the
// encoder fills it and hands it to the transport, which returns it
// with Put when the bytes are on the wire.
type BufferPool interface {
	Get() []byte
	Put([]byte)
}

// SlicePool is a bounded BufferPool creating fixed-capacity buffers
// on demand. When the pool is empty Get allocates; when it is full
// Put drops the buffer for the collector.
type SlicePool struct {
	size int
	pool chan []byte
}

// NewSlicePool returns a pool holding up to n buffers of the given
// capacity. The capacity models the transport's frame size.
func NewSlicePool(n, size int) *SlicePool {
	return &SlicePool{size: size, pool: make(chan []byte, n)}
}

func (p *SlicePool) Get() []byte {
	select {
	case b := <-p.pool:
		return b[:0]
	default:
		return make([]byte, 0, p.size)
	}
}

func (p *SlicePool) Put(b []byte) {
	if cap(b) != p.size {
		return
	}
	select {
	case p.pool <- b[:0]:
	default:
	}
}
