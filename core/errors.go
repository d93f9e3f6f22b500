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

import "errors"

// Dataset errors
var (
	// ErrColumnNotFound indicates an operation referenced a column the table does not have.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn indicates a header names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrRowOutOfRange indicates a row index outside the table.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrLengthMismatch indicates a column of values does not match the table length.
	ErrLengthMismatch = errors.New("column length does not match table length")

	// ErrMissingRequiredColumn indicates the loaded table lacks a column every dataset must have.
	ErrMissingRequiredColumn = errors.New("missing required column")

	// ErrInvalidTable indicates a table failed validation.
	ErrInvalidTable = errors.New("invalid table")
)
