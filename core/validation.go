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
	"fmt"
	"strings"
)

// ValidateTable validates a loaded dataset.
// Validation rules:
//   - table must not be nil
//   - every column in RequiredColumns must be present
//   - column names must not be blank
//
// NOT validated (derived by the regenerator):
//   - x, y, year, cluster, topic
func ValidateTable(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}

	for _, name := range t.Columns() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank column name", ErrInvalidTable)
		}
	}

	if err := RequireColumns(t, RequiredColumns...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	return nil
}

// RequireColumns returns ErrMissingRequiredColumn naming every absent column.
func RequireColumns(t *Table, names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredColumn, strings.Join(missing, ", "))
	}
	return nil
}
