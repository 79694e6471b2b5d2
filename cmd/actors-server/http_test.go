package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"topactors-backend/internal/actor"

	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	records []actor.Record
	err     error
}

func (f fakeLister) List(ctx context.Context) ([]actor.Record, error) {
	return f.records, f.err
}

func (f fakeLister) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), f.err
}

func get(t testing.TB, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	res := httptest.NewRecorder()
	mux.ServeHTTP(res, req)
	return res
}

func TestHealth(t *testing.T) {
	records := []actor.Record{
		actor.NewRecord(actor.SOURCE_IMDB, "Tom Hanks", 1),
		actor.NewRecord(actor.SOURCE_ROTTEN_TOMATOES, "Sample Actor A", 2),
	}
	res := get(t, NewMux(fakeLister{records: records}), "/health")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"status": "ok", "actors": 2}`, res.Body.String())
}

func TestHealthDatabaseDown(t *testing.T) {
	res := get(t, NewMux(fakeLister{err: errors.New("database is locked")}), "/health")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
	require.JSONEq(t, `{"status": "unavailable", "actors": 0}`, res.Body.String())
}

func TestDebugActors(t *testing.T) {
	hanks := actor.NewRecord(actor.SOURCE_IMDB, "Tom Hanks", 1)
	hanks.Details = "not part of the debug output"
	sample := actor.NewRecord(actor.SOURCE_ROTTEN_TOMATOES, "Sample Actor A", 2)

	res := get(t, NewMux(fakeLister{records: []actor.Record{hanks, sample}}), "/debug/actors")
	require.Equal(t, http.StatusOK, res.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, map[string]any{"id": hanks.ID, "name": "Tom Hanks", "rank": float64(1)}, body[0])
	require.Equal(t, "Sample Actor A", body[1]["name"])
}

func TestDebugActorsEmpty(t *testing.T) {
	res := get(t, NewMux(fakeLister{}), "/debug/actors")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `[]`, res.Body.String())
}

func TestDebugActorsError(t *testing.T) {
	res := get(t, NewMux(fakeLister{err: errors.New("database is locked")}), "/debug/actors")
	require.Equal(t, http.StatusInternalServerError, res.Code)
}
