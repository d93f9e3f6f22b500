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

package normalize

import (
	"regexp"
	"strings"
)

var (
	// A euro sign, optionally preceded by an apostrophe and followed by one
	// corrupted quote or trademark glyph, stands in for an apostrophe or a
	// closing quote. A lone euro sign matches too, so none survives. Trailing
	// whitespace is captured so it can be kept.
	mojibakeQuote = regexp.MustCompile(`'?€[™˜œ\x{009D}\x{201D}\x{201C}]?([\s\x{00A0}]*)`)

	// Fixed punctuation table. Bytes that are not valid UTF-8 pass through
	// untouched.
	punctuation = strings.NewReplacer(
		"\u2018", "'",
		"\u2019", "'",
		"\u201C", `"`,
		"\u201D", `"`,
		"\u2013", "-",
		"\u2014", "-",
		"\u2026", "...",
		"\u00A0", " ",
	)
)

// forbidden lists every code point Text guarantees to remove.
const forbidden = "\u20AC\u2018\u2019\u201C\u201D\u2013\u2014\u2026\u00A0"

// Text rewrites encoding artifacts in s. Empty input is returned unchanged.
func Text(s string) string {
	if s == "" {
		return s
	}

	s = mojibakeQuote.ReplaceAllString(s, "'${1}")
	if strings.ContainsAny(s, forbidden) {
		s = punctuation.Replace(s)
	}
	return s
}

// IsClean reports whether s contains none of the code points Text removes.
func IsClean(s string) bool {
	return !strings.ContainsAny(s, forbidden)
}
