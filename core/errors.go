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

// Domain validation errors
var (
	// ErrInvalidJournal indicates a Journal failed validation.
	ErrInvalidJournal = errors.New("invalid journal")

	// ErrInvalidMessage indicates an InboundMessage failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyQuery indicates the journal Query field is empty.
	ErrEmptyQuery = errors.New("journal query cannot be empty")

	// ErrIDMismatch indicates a journal ID does not match its query.
	ErrIDMismatch = errors.New("journal id does not match query")

	// ErrEmptySender indicates the message From field is empty.
	ErrEmptySender = errors.New("message sender cannot be empty")

	// ErrEmptyBody indicates the message Body field is blank.
	ErrEmptyBody = errors.New("message body cannot be empty")
)
