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

// ValidateQARecord validates a QARecord before it is written to a corpus.
//
// Validation rules:
//   - Id must not be empty
//   - Question and Answer must not be blank
//   - Embedding must be present and decodable
//
// Metadata is optional and not validated.
func ValidateQARecord(record *QARecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyID)
	}

	if strings.TrimSpace(record.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyQuestion)
	}

	if strings.TrimSpace(record.Answer) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyAnswer)
	}

	if record.Embedding == nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingEmbedding)
	}
	if _, err := record.Embedding.Vector(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return nil
}

// NormalizeQuestion trims surrounding whitespace from a question.
// Returns ErrEmptyQuestion if nothing is left.
func NormalizeQuestion(question string) (string, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	return q, nil
}
