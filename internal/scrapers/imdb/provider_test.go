package imdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/enrich"
	"topactors-backend/internal/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeImdb struct {
	mutex      sync.Mutex
	listPage   []byte
	listStatus int
	bios       map[string][]byte
	bioHits    map[string]int
	userAgents []string
}

func newFakeImdb(listPage []byte) *fakeImdb {
	return &fakeImdb{
		listPage:   listPage,
		listStatus: http.StatusOK,
		bios:       map[string][]byte{},
		bioHits:    map[string]int{},
	}
}

func (f *fakeImdb) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.userAgents = append(f.userAgents, r.Header.Get("User-Agent"))

	switch {
	case strings.HasPrefix(r.URL.Path, "/list/"):
		w.WriteHeader(f.listStatus)
		w.Write(f.listPage)
	case strings.HasPrefix(r.URL.Path, "/name/") && strings.HasSuffix(r.URL.Path, "/bio/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/name/"), "/bio/")
		f.bioHits[id]++
		bio, ok := f.bios[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(bio)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupProvider(t testing.TB, fake *fakeImdb) (Provider, *enrich.Enricher, *telemetry.Recorder) {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	tel := telemetry.NewRecorder()
	client, err := NewClient(ClientOptions{
		ListUrl: server.URL + "/list/ls054840033/",
		BaseUrl: server.URL,
		Timeout: 5 * time.Second,
	}, tel)
	require.NoError(t, err)

	enricher := enrich.New(client.Bio, enrich.Options{Timeout: 2 * time.Second}, tel)
	return NewProvider(client, enricher, tel), enricher, tel
}

func TestProviderFetch(t *testing.T) {
	fake := newFakeImdb(listLister)
	fake.bios["nm0000243"] = bioLegacy
	provider, enricher, _ := setupProvider(t, fake)

	records, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "Tom Hanks", records[0].Name)
	require.Equal(t, 1, records[0].Rank)
	require.Equal(t, actor.SOURCE_IMDB, records[0].Source)
	require.Equal(t, "nm0000158", records[0].ExternalID)
	// the inline summary is kept, so no bio page is requested
	require.True(t, strings.HasPrefix(records[0].Details, "Thomas Jeffrey Hanks"))
	require.NotEmpty(t, records[0].ID)

	require.Equal(t, "Denzel Washington", records[1].Name)
	require.Equal(t, "Denzel Hayes Washington, Jr. was born in Mount Vernon, New York.", records[1].Details)
	require.NotEqual(t, records[0].ID, records[1].ID)

	require.Equal(t, int64(1), enricher.Fetches())
	require.Equal(t, 0, fake.bioHits["nm0000158"])
	require.Equal(t, 1, fake.bioHits["nm0000243"])

	for _, ua := range fake.userAgents {
		require.Equal(t, DefaultUserAgent, ua)
	}
}

func TestProviderDedupes(t *testing.T) {
	fake := newFakeImdb(listListerSmall)
	provider, _, _ := setupProvider(t, fake)

	records, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Tom Hanks", records[0].Name)
	require.Equal(t, "Two-time Oscar winner.", records[0].Details)
	// no profile link means no id and nothing to enrich with
	require.Equal(t, "Meryl Streep", records[1].Name)
	require.Empty(t, records[1].ExternalID)
	require.Empty(t, records[1].Details)
}

func TestProviderMissingBio(t *testing.T) {
	fake := newFakeImdb(listJsonLd)
	provider, _, tel := setupProvider(t, fake)

	records, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Tom Hanks", records[0].Name)
	require.Empty(t, records[0].Details)
	require.Equal(t, 1, fake.bioHits["nm0000158"])
	require.True(t, tel.Has(telemetry.REPORT_WARNING, "enricher.fetch"))
}

func TestProviderListFailure(t *testing.T) {
	fake := newFakeImdb(nil)
	fake.listStatus = http.StatusServiceUnavailable
	provider, _, tel := setupProvider(t, fake)

	records, err := provider.Fetch(context.Background())
	require.Error(t, err)
	require.Empty(t, records)
	require.True(t, tel.Has(telemetry.REPORT_BROKEN, "client.list-page"))
}

func TestProviderNoItems(t *testing.T) {
	fake := newFakeImdb(listEmpty)
	provider, _, tel := setupProvider(t, fake)

	records, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
	require.True(t, tel.Has(telemetry.REPORT_WARNING, "provider.fetch"))
}

func TestClientBioUrl(t *testing.T) {
	client, err := NewClient(ClientOptions{BaseUrl: "https://www.imdb.com/"}, telemetry.NewRecorder())
	require.NoError(t, err)
	require.Equal(t, "https://www.imdb.com/name/nm0000158/bio/", client.BioUrl("nm0000158"))
	require.Equal(t, DefaultListUrl, client.ListUrl().String())
}

func TestClientRateLimit(t *testing.T) {
	fake := newFakeImdb(nil)
	fake.bios["nm0000158"] = bioModern
	server := httptest.NewServer(fake)
	defer server.Close()

	client, err := NewClient(ClientOptions{
		BaseUrl:                 server.URL,
		DetailRequestsPerSecond: 20,
	}, telemetry.NewRecorder())
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, client.WaitDetail(context.Background()))
		bio, err := client.Bio(context.Background(), "nm0000158")
		require.NoError(t, err)
		require.NotEmpty(t, bio)
	}
	// the first request goes through immediately, the next two wait 50ms each
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestEnrichWaitsOutsideFetchTimeout(t *testing.T) {
	fake := newFakeImdb(nil)
	server := httptest.NewServer(fake)
	defer server.Close()

	client, err := NewClient(ClientOptions{
		BaseUrl:                 server.URL,
		DetailRequestsPerSecond: 10,
	}, telemetry.NewRecorder())
	require.NoError(t, err)

	var records []actor.Record
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("nm%07d", i)
		fake.bios[id] = bioModern
		record := actor.NewRecord(actor.SOURCE_IMDB, id, i+1)
		record.ExternalID = id
		records = append(records, record)
	}

	// the queue on the limiter is longer than the timeout of a single fetch
	enricher := enrich.New(client.Bio, enrich.Options{
		Permits: 6,
		Timeout: 200 * time.Millisecond,
		Wait:    client.WaitDetail,
	}, telemetry.NewRecorder())
	enricher.EnrichAll(context.Background(), records)

	for _, record := range records {
		require.NotEmpty(t, record.Details, record.ExternalID)
	}
	require.Equal(t, int64(6), enricher.Fetches())
}
