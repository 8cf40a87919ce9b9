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


// Package relay turns an inbound chat message into a ranked journal reply.
//
// For every message the Pipeline:
//
//  1. acknowledges the request
//  2. searches the catalog with the message's whitespace-separated keywords
//  3. enriches each matching title with its CiteScore (cache first, then the
//     metric service)
//  4. ranks journals by CiteScore, unknown scores last, and keeps the top N
//  5. formats the list and sends it in chunks that fit the platform limit
//
// Any failure along the way is logged and answered with a generic apology.
//
// # Concurrency
//
// Messages run on a bounded ants worker pool via Submit; lookups for the
// titles of one message run on a second pool owned by the Enricher.
package relay
