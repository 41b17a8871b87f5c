package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/standup-tracker/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// StandupDocument is the indexed shape of a standup.
type StandupDocument struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Yesterday string    `json:"yesterday"`
	Today     string    `json:"today"`
	Blockers  string    `json:"blockers"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Hit struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"`
	Document StandupDocument `json:"standup"`
}

// StandupIndex keeps a full-text copy of standups. A nil client disables it.
type StandupIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewStandupIndex(es *elasticsearch.Client, index string) *StandupIndex {
	return &StandupIndex{ES: es, Index: index}
}

func (i *StandupIndex) Enabled() bool {
	return i != nil && i.ES != nil && i.Index != ""
}

func toDocument(s *entity.Standup) StandupDocument {
	return StandupDocument{
		ID:        s.ID,
		UserID:    s.UserID,
		Date:      s.Date.UTC().Format("2006-01-02"),
		Yesterday: s.Yesterday,
		Today:     s.Today,
		Blockers:  s.Blockers,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

// IndexStandup upserts the standup document under its id.
func (i *StandupIndex) IndexStandup(ctx context.Context, s *entity.Standup) error {
	if !i.Enabled() {
		return nil
	}
	b, err := json.Marshal(toDocument(s))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.Index, DocumentID: s.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over the report fields, optionally restricted to one user.
func (i *StandupIndex) Search(ctx context.Context, q, userID string, size int) ([]Hit, error) {
	if !i.Enabled() {
		return []Hit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	must := []any{
		map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"today^2", "yesterday", "blockers"},
			},
		},
	}
	boolQuery := map[string]any{"must": must}
	if userID != "" {
		boolQuery["filter"] = []any{map[string]any{"term": map[string]any{"userId.keyword": userID}}}
	}
	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{"_score", map[string]any{"date": "desc"}},
		"size":  size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("es search: %s: %s", res.Status(), bytes.TrimSpace(msg))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source StandupDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}
	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Document: h.Source})
	}
	return hits, nil
}
