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

// ValidateJournal validates a Journal according to domain rules.
//
// Validation rules:
//   - Query must not be empty
//   - ID must be the content ID of Query
//
// NOT validated (supplied by the metric service):
//   - Title, ScopusLink (may be "N/A")
//   - CiteScore (may be unknown)
func ValidateJournal(journal *Journal) error {
	if journal == nil {
		return fmt.Errorf("%w: journal is nil", ErrInvalidJournal)
	}

	if journal.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJournal, ErrEmptyQuery)
	}

	if journal.Id != IDFromContent(journal.Query) {
		return fmt.Errorf("%w: %w", ErrInvalidJournal, ErrIDMismatch)
	}

	return nil
}

// ValidateMessage validates an InboundMessage before it is relayed.
func ValidateMessage(msg *InboundMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.From == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptySender)
	}

	if strings.TrimSpace(msg.Body) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyBody)
	}

	return nil
}
