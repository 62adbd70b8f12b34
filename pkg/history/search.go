package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/stayware/sessionkit/pkg/session"
)

// SearchStore indexes lifecycle events into OpenSearch, one document per
// event, for fleet-wide security analysis (hijacking patterns, forced
// logouts, rotation cadence).
type SearchStore struct {
	client *opensearch.Client
	index  string
}

// NewSearchStore creates a store writing into the given index.
func NewSearchStore(client *opensearch.Client, index string) *SearchStore {
	if client == nil {
		panic("history: opensearch client cannot be nil")
	}
	if index == "" {
		panic("history: index name cannot be empty")
	}
	return &SearchStore{client: client, index: index}
}

// StoreBatch implements Store. Lifecycle events are low-rate, so documents
// are indexed one by one; the first failure aborts the batch.
func (s *SearchStore) StoreBatch(ctx context.Context, events []session.Event) error {
	for _, event := range events {
		if err := s.indexOne(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (s *SearchStore) indexOne(ctx context.Context, event session.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: uuid.New().String(),
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Join(ErrIndexFailed,
			fmt.Errorf("index %s: %s", s.index, res.Status()))
	}
	return nil
}
