package actor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Source tags which provider produced a record, it is set once when the record
// is created and never changed afterwards.
type Source int

const (
	SOURCE_IMDB Source = iota
	SOURCE_ROTTEN_TOMATOES
)

var sourceTokens = map[Source]string{
	SOURCE_IMDB:            "Imdb",
	SOURCE_ROTTEN_TOMATOES: "RottenTomatoes",
}

// String returns the stable token the source is persisted as.
func (s Source) String() string {
	token, ok := sourceTokens[s]
	if !ok {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return token
}

// ParseSource is the inverse of Source.String.
func ParseSource(token string) (Source, error) {
	for source, t := range sourceTokens {
		if t == token {
			return source, nil
		}
	}
	return 0, fmt.Errorf("unknown actor source '%s'", token)
}

// Record is a single ranked actor flowing through ingestion.
type Record struct {
	ID   string
	Name string
	// Rank is the rank reported by the source until it is normalized, <= 0 means unranked.
	Rank    int
	Details string
	Source  Source
	// ExternalID is the id native to the source (ex. "nm0000158"), empty if the source has none.
	ExternalID string
	ImageURL   string
}

// NewRecord creates a record with a fresh id.
func NewRecord(source Source, name string, rank int) Record {
	return Record{
		ID:     uuid.NewString(),
		Name:   name,
		Rank:   rank,
		Source: source,
	}
}

// Provider is anything that can produce a batch of actor records.
type Provider interface {
	// Name identifies the provider in reports.
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}
