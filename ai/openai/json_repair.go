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

package openai

import "strings"

// repairJSON fixes the malformed JSON small models commonly produce:
// object keys missing their opening quote (`, type":` becomes `, "type":`)
// and trailing commas before a closing bracket or brace.
// Text inside string literals is left alone.
func repairJSON(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if inString {
			b.WriteRune(ch)
			switch ch {
			case '\\':
				if i+1 < len(runes) {
					i++
					b.WriteRune(runes[i])
				}
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			b.WriteRune(ch)

		case ',':
			if next := skipSpace(runes, i+1); next < len(runes) && (runes[next] == '}' || runes[next] == ']') {
				continue
			}
			b.WriteRune(ch)
			i = quoteBareKey(runes, i+1, &b) - 1

		case '{':
			b.WriteRune(ch)
			i = quoteBareKey(runes, i+1, &b) - 1

		default:
			b.WriteRune(ch)
		}
	}

	return b.String()
}

// quoteBareKey copies whitespace from runes[start:], then, if a bare key
// closed by `":` follows, writes it fully quoted. It returns the index of
// the first rune not yet copied.
func quoteBareKey(runes []rune, start int, b *strings.Builder) int {
	i := skipSpace(runes, start)
	b.WriteString(string(runes[start:i]))

	if i >= len(runes) || !isLetter(runes[i]) {
		return i
	}
	end := i
	for end < len(runes) && (isLetter(runes[end]) || runes[end] == '_') {
		end++
	}
	if end+1 < len(runes) && runes[end] == '"' && runes[end+1] == ':' {
		b.WriteRune('"')
		b.WriteString(string(runes[i:end]))
		b.WriteRune('"')
		return end + 1
	}
	return i
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' || runes[i] == '\r') {
		i++
	}
	return i
}
