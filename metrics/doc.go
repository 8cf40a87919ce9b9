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


// Package metrics provides abstractions for the journal metric service used in citescout.
//
// A JournalLookup takes a catalog title and returns the journal as the metric
// service knows it: canonical title, CiteScore and a link to the source page.
// The elsevier subpackage talks to the Elsevier Serial Title API; the mock
// subpackage provides a test double.
//
// Lookups are independent of one another and implementations must be safe
// for concurrent use, since enrichment fans out over a worker pool.
package metrics
