// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/factmap/core"
)

// float32Size is the encoded size of one vector element.
const float32Size = 4

// MarshalEmbedding serializes an Embedding to bytes.
// Layout: ID, model, vector length, vector elements, InsertedAt in Unix microseconds.
func MarshalEmbedding(e *core.Embedding) []byte {
	buf := make([]byte, sizeEmbedding(e))
	n := varint.Uint64.Marshal(uint64(e.ID), buf)
	n += ord.String.Marshal(e.Model, buf[n:])
	n += varint.Int.Marshal(len(e.Vector), buf[n:])
	for _, f := range e.Vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	varint.Int64.Marshal(e.InsertedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalEmbedding deserializes an Embedding from bytes.
func UnmarshalEmbedding(data []byte) (*core.Embedding, error) {
	var e core.Embedding

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	e.ID = core.ID(id)

	model, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrSerializationFailed, err)
	}
	e.Model = model
	n += m

	length, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m
	if length < 0 || length*float32Size > len(data)-n {
		return nil, fmt.Errorf("%w: vector of %d elements", ErrTruncatedData, length)
	}

	e.Vector = make([]float32, length)
	for i := range e.Vector {
		f, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector element %d: %w", ErrSerializationFailed, i, err)
		}
		e.Vector[i] = f
		n += m
	}

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	e.InsertedAt = time.UnixMicro(micros).UTC()

	return &e, nil
}

func sizeEmbedding(e *core.Embedding) int {
	size := varint.Uint64.Size(uint64(e.ID))
	size += ord.String.Size(e.Model)
	size += varint.Int.Size(len(e.Vector))
	size += len(e.Vector) * float32Size
	size += varint.Int64.Size(e.InsertedAt.UnixMicro())
	return size
}
