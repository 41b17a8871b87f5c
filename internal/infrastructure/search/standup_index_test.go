package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader(body))}
}

func newTestIndex(t *testing.T, rt roundTripFunc) *StandupIndex {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: rt,
	})
	require.NoError(t, err)
	return NewStandupIndex(es, "standups")
}

func TestStandupIndex_Disabled(t *testing.T) {
	var idx *StandupIndex
	assert.False(t, idx.Enabled())
	require.NoError(t, idx.IndexStandup(context.Background(), &entity.Standup{ID: "s1"}))
	hits, err := idx.Search(context.Background(), "deploy", "", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStandupIndex_IndexStandup(t *testing.T) {
	var gotPath string
	var gotDoc StandupDocument
	idx := newTestIndex(t, func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotDoc)
		return jsonResponse(http.StatusCreated, `{"result":"created"}`), nil
	})

	s := &entity.Standup{
		ID: "s1", UserID: "u1", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Yesterday: "fixed login", Today: "ship search", Blockers: "None", Status: entity.StandupDraft,
	}
	require.NoError(t, idx.IndexStandup(context.Background(), s))
	assert.Equal(t, "/standups/_doc/s1", gotPath)
	assert.Equal(t, "2026-05-01", gotDoc.Date)
	assert.Equal(t, "ship search", gotDoc.Today)
}

func TestStandupIndex_IndexStandupErrorStatus(t *testing.T) {
	idx := newTestIndex(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`), nil
	})
	err := idx.IndexStandup(context.Background(), &entity.Standup{ID: "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestStandupIndex_SearchFiltersByUser(t *testing.T) {
	var body map[string]any
	idx := newTestIndex(t, func(r *http.Request) (*http.Response, error) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		return jsonResponse(http.StatusOK, `{"hits":{"hits":[
			{"_id":"s1","_score":1.5,"_source":{"id":"s1","userId":"u1","date":"2026-05-01","today":"ship search"}}
		]}}`), nil
	})

	hits, err := idx.Search(context.Background(), "search", "u1", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].ID)
	assert.Equal(t, 1.5, hits[0].Score)
	assert.Equal(t, "ship search", hits[0].Document.Today)

	assert.EqualValues(t, 10, body["size"])
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	assert.Contains(t, boolQuery, "filter")
}
