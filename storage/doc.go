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


// Package storage provides the storage abstraction layer for citescout.
//
// This package defines repository interfaces that decouple storage implementation
// from the relay logic. Two concerns live here:
//
//   - CatalogRepository: the read-only list of searchable journal titles
//   - JournalCache: enrichment results keyed by catalog title, so repeated
//     searches do not hit the metric service for every match
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces rather than
// concrete types:
//
//	catalog, err := sqlite.OpenCatalog(sqlite.Config{Path: "scopus_sources.db"})  // storage.CatalogRepository
//
// Consumers can swap the SQLite catalog for the Badger one, or for a test
// double, without modification.
//
// # Backends
//
//   - storage/sqlite: read-only catalog over an existing SQLite database
//   - storage/badger: catalog copy plus the journal cache
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
