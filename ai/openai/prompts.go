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

import (
	"fmt"
	"strings"

	"github.com/poiesic/factmap/ai"
)

const extractionResponseSchema = `{
  "type": "object",
  "properties": {
    "targets": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "type": {
            "type": "string"
          },
          "importance": {
            "type": "integer",
            "minimum": 1,
            "maximum": 10
          }
        },
        "required": ["name", "type", "importance"],
        "additionalProperties": false
      }
    }
  },
  "required": ["targets"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You read government correction notices and clarifications. Identify who the
notice is directed at: the people, organizations, websites, or accounts whose statements are being corrected.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Names are written in full as they appear in the notice, with their original capitalization.
- Type field must match exactly one of the listed values: %s.
- Importance is an integer from 1 (mentioned in passing) to 10 (the notice is addressed to them).
- Do not list the ministry or agency issuing the correction unless its own statement is corrected.
- Include only entities named in the text. Do not hallucinate.
- If the notice is a general clarification with no specific target, return "targets": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Corrections regarding falsehoods posted by The Online Citizen on 5 May. The article alleged that..."
Output:
{
  "targets": [
    {"name":"The Online Citizen","type":"website","importance":10}
  ]
}

Example:
Input: "Clarification on the eligibility criteria for the new housing grant."
Output:
{
  "targets": []
}`

// buildSystemPrompt creates the system prompt with entity types embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(ai.EntityTypes, ", "))
}
