package elsevier

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/poiesic/citescout/core"
)

const scopusSourceRef = "scopus-source"

type serialTitleResponse struct {
	Metadata struct {
		Entries []serialEntry `json:"entry"`
	} `json:"serial-metadata-response"`
}

type serialEntry struct {
	Title     string         `json:"dc:title"`
	CiteScore *citeScoreInfo `json:"citeScoreYearInfoList"`
	Links     []serialLink   `json:"link"`
}

type citeScoreInfo struct {
	Current looseString `json:"citeScoreCurrentMetric"`
}

type serialLink struct {
	Ref  string `json:"@ref"`
	Href string `json:"@href"`
}

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

// parseCiteScore converts the service's metric text to a CiteScore.
// Anything that is not a finite number is unknown.
func parseCiteScore(text string) core.CiteScore {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return core.CiteScore{}
	}
	return core.Score(value)
}

// toJournal builds the journal for query from a response entry.
func (e *serialEntry) toJournal(query string) *core.Journal {
	journal := core.NewJournal(query)

	if title := strings.TrimSpace(e.Title); title != "" {
		journal.Title = title
	}

	if e.CiteScore != nil {
		journal.CiteScore = parseCiteScore(string(e.CiteScore.Current))
	}

	for _, link := range e.Links {
		if link.Ref == scopusSourceRef && link.Href != "" {
			journal.ScopusLink = link.Href
			break
		}
	}

	return journal
}
