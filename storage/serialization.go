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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/citescout/core"
)

// journalFormatVersion prefixes every encoded journal.
const journalFormatVersion byte = 1

// MarshalJournal serializes a Journal to bytes.
func MarshalJournal(journal *core.Journal) []byte {
	fetchedAt := journal.FetchedAt.UnixMicro()
	size := 1 +
		varint.Uint64.Size(uint64(journal.Id)) +
		ord.String.Size(journal.Query) +
		ord.String.Size(journal.Title) +
		ord.Bool.Size(journal.CiteScore.Known) +
		varint.Float64.Size(journal.CiteScore.Value) +
		ord.String.Size(journal.ScopusLink) +
		varint.Int64.Size(fetchedAt)

	buf := make([]byte, size)
	buf[0] = journalFormatVersion
	n := 1
	n += varint.Uint64.Marshal(uint64(journal.Id), buf[n:])
	n += ord.String.Marshal(journal.Query, buf[n:])
	n += ord.String.Marshal(journal.Title, buf[n:])
	n += ord.Bool.Marshal(journal.CiteScore.Known, buf[n:])
	n += varint.Float64.Marshal(journal.CiteScore.Value, buf[n:])
	n += ord.String.Marshal(journal.ScopusLink, buf[n:])
	varint.Int64.Marshal(fetchedAt, buf[n:])
	return buf
}

// UnmarshalJournal deserializes a Journal from bytes.
func UnmarshalJournal(data []byte) (*core.Journal, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty journal data", ErrSerializationFailed)
	}
	if data[0] != journalFormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}

	var (
		journal core.Journal
		n       = 1
		read    int
		err     error
	)

	var id uint64
	if id, read, err = varint.Uint64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	journal.Id = core.ID(id)
	n += read

	if journal.Query, read, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrSerializationFailed, err)
	}
	n += read

	if journal.Title, read, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: title: %w", ErrSerializationFailed, err)
	}
	n += read

	if journal.CiteScore.Known, read, err = ord.Bool.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: citescore flag: %w", ErrSerializationFailed, err)
	}
	n += read

	if journal.CiteScore.Value, read, err = varint.Float64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: citescore: %w", ErrSerializationFailed, err)
	}
	n += read

	if journal.ScopusLink, read, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: link: %w", ErrSerializationFailed, err)
	}
	n += read

	var fetchedAt int64
	if fetchedAt, _, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: fetched at: %w", ErrSerializationFailed, err)
	}
	journal.FetchedAt = time.UnixMicro(fetchedAt).UTC()

	return &journal, nil
}
