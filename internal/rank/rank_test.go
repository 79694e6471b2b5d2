package rank

import (
	"math/rand"
	"testing"
	"topactors-backend/internal/actor"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func record(source actor.Source, name string, rank int, externalId string) actor.Record {
	r := actor.NewRecord(source, name, rank)
	r.ExternalID = externalId
	return r
}

type ranked struct {
	Name string
	Rank int
}

func summarize(records []actor.Record) []ranked {
	out := make([]ranked, len(records))
	for i, r := range records {
		out[i] = ranked{Name: r.Name, Rank: r.Rank}
	}
	return out
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		input    []actor.Record
		expected []ranked
	}{
		{
			name: "reported ranks",
			input: []actor.Record{
				record(actor.SOURCE_IMDB, "Charlie", 3, ""),
				record(actor.SOURCE_IMDB, "Alice", 1, ""),
				record(actor.SOURCE_IMDB, "Bob", 2, ""),
			},
			expected: []ranked{
				{Name: "Alice", Rank: 1},
				{Name: "Bob", Rank: 2},
				{Name: "Charlie", Rank: 3},
			},
		},
		{
			name: "missing ranks order by name",
			input: []actor.Record{
				record(actor.SOURCE_IMDB, "charlie", 0, ""),
				record(actor.SOURCE_IMDB, "Bob", 0, ""),
				record(actor.SOURCE_IMDB, "alice", 0, ""),
			},
			expected: []ranked{
				{Name: "alice", Rank: 1},
				{Name: "Bob", Rank: 2},
				{Name: "charlie", Rank: 3},
			},
		},
		{
			name: "combined providers",
			input: []actor.Record{
				record(actor.SOURCE_IMDB, "Tom Hanks", 1, "nm0000158"),
				record(actor.SOURCE_IMDB, "Denzel Washington", 2, "nm0000243"),
				record(actor.SOURCE_ROTTEN_TOMATOES, "Sample Actor A", 1001, "rt-sample-a"),
				record(actor.SOURCE_ROTTEN_TOMATOES, "Sample Actor B", 1002, "rt-sample-b"),
			},
			expected: []ranked{
				{Name: "Tom Hanks", Rank: 1},
				{Name: "Denzel Washington", Rank: 2},
				{Name: "Sample Actor A", Rank: 3},
				{Name: "Sample Actor B", Rank: 4},
			},
		},
		{
			name: "tie on rank breaks on case-insensitive name",
			input: []actor.Record{
				record(actor.SOURCE_IMDB, "meryl Streep", 1, "nm0000658"),
				record(actor.SOURCE_ROTTEN_TOMATOES, "Brad Pitt", 1, "rt-1"),
				record(actor.SOURCE_IMDB, "Meryl Streep", 1, "nm0000659"),
			},
			expected: []ranked{
				{Name: "Brad Pitt", Rank: 1},
				{Name: "Meryl Streep", Rank: 2},
				{Name: "meryl Streep", Rank: 3},
			},
		},
		{
			name: "unranked go last",
			input: []actor.Record{
				record(actor.SOURCE_IMDB, "Zero", 0, ""),
				record(actor.SOURCE_IMDB, "Negative", -5, ""),
				record(actor.SOURCE_IMDB, "Ranked", 7, ""),
			},
			expected: []ranked{
				{Name: "Ranked", Rank: 1},
				{Name: "Negative", Rank: 2},
				{Name: "Zero", Rank: 3},
			},
		},
		{
			name:  "empty",
			input: []actor.Record{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := Normalize(c.input)
			var expected []ranked
			if len(c.expected) > 0 {
				expected = c.expected
			} else {
				expected = []ranked{}
			}
			diff := cmp.Diff(expected, summarize(out))
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestNormalizeSourceAndIdTieBreak(t *testing.T) {
	a := record(actor.SOURCE_ROTTEN_TOMATOES, "Tom Hanks", 3, "rt-b")
	b := record(actor.SOURCE_IMDB, "Tom Hanks", 3, "nm0000158")
	c := record(actor.SOURCE_ROTTEN_TOMATOES, "Tom Hanks", 3, "rt-a")

	out := Normalize([]actor.Record{a, b, c})
	require.Equal(t, []string{b.ID, c.ID, a.ID}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func randomRecords(rng *rand.Rand, n int) []actor.Record {
	names := []string{"Tom Hanks", "tom hanks", "Meryl Streep", "Denzel Washington", "Brad Pitt"}
	sources := []actor.Source{actor.SOURCE_IMDB, actor.SOURCE_ROTTEN_TOMATOES}

	records := make([]actor.Record, n)
	for i := range records {
		records[i] = record(
			sources[rng.Intn(len(sources))],
			names[rng.Intn(len(names))],
			rng.Intn(20)-5,
			"",
		)
		records[i].ExternalID = string(rune('a' + rng.Intn(3)))
	}
	return records
}

func TestNormalizeDenseUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 50; iter++ {
		records := Normalize(randomRecords(rng, rng.Intn(60)))

		seen := map[int]bool{}
		for i, r := range records {
			require.Equal(t, i+1, r.Rank)
			require.False(t, seen[r.Rank])
			seen[r.Rank] = true
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		records := randomRecords(rng, 40)

		shuffled := make([]actor.Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		first := summarizeKeys(Normalize(records))
		second := summarizeKeys(Normalize(shuffled))
		diff := cmp.Diff(first, second)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

type key struct {
	Name       string
	Source     actor.Source
	ExternalID string
	Rank       int
}

// summarizeKeys leaves out the generated ids, two records that differ only by id are
// indistinguishable to the ordering.
func summarizeKeys(records []actor.Record) []key {
	out := make([]key, len(records))
	for i, r := range records {
		out[i] = key{Name: r.Name, Source: r.Source, ExternalID: r.ExternalID, Rank: r.Rank}
	}
	return out
}
