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


// Package search implements progressive keyword-subset title matching.
//
// Given a catalog of titles and a list of keywords, the Matcher tries every
// combination of keywords from the largest size down to a single keyword.
// Within a size, combinations are enumerated in order (outer index ascending,
// recursing on the remaining suffix). A title matches a combination when every
// keyword in it occurs as a case-insensitive substring of the title.
//
// By default the search stops at the first combination that matches anything,
// so the result comes from exactly one combination. UnionWinningSize instead
// collects every combination at the first size that matches.
//
// The Searcher wraps a Matcher with a catalog repository and loads the
// catalog fresh for every search.
package search
