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

package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Column names of the article dataset.
const (
	ColDate        = "date"
	ColTitle       = "title"
	ColSummary     = "summary"
	ColCategory    = "category"
	ColItemURL     = "item_url"
	ColImageURL    = "image_url"
	ColArticleText = "article_text"
	ColX           = "x"
	ColY           = "y"
	ColYear        = "year"
	ColCluster     = "cluster"
	ColTopic       = "topic"
	ColTarget      = "target"
)

// PreferredOrder is the column order of every persisted output.
// Columns not listed here follow in their original relative order.
var PreferredOrder = []string{
	ColDate, ColTitle, ColSummary, ColCategory, ColItemURL, ColImageURL,
	ColArticleText, ColX, ColY, ColYear, ColCluster, ColTopic, ColTarget,
}

// RequiredColumns must be present in every input dataset.
var RequiredColumns = []string{ColDate, ColTitle, ColSummary, ColArticleText}

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Point is a projected 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Embedding is a cached embedding vector for one piece of text.
// ID is IDFromContent of the embedded text; vectors are cached per model.
type Embedding struct {
	ID         ID
	Model      string
	Vector     []float32
	InsertedAt time.Time
}
