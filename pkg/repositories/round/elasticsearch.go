package round

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ArchiverConfig holds configuration options for the Elasticsearch archiver
type ArchiverConfig struct {
	URL       string
	Username  string
	Password  string
	Index     string
	BatchSize int // Flush happens automatically when this many rounds are pending
}

// DefaultArchiverConfig returns a default configuration for the archiver
func DefaultArchiverConfig() *ArchiverConfig {
	return &ArchiverConfig{
		URL:       "http://localhost:9200",
		Index:     "arcade-rounds",
		BatchSize: 100,
	}
}

// Archiver wraps a base Repository and additionally bulk-indexes settled
// rounds into Elasticsearch for long-term analysis. Indexing is buffered;
// call Flush periodically (the scheduler does this) or rely on BatchSize.
// Archive failures never surface to gameplay: the base repository remains
// the source of truth.
type Archiver struct {
	base    Repository
	client  *elasticsearch.Client
	config  *ArchiverConfig
	mu      sync.Mutex
	pending []*entities.RoundResult
}

// NewArchiver creates an Archiver around the base repository
func NewArchiver(base Repository, config *ArchiverConfig) (*Archiver, error) {
	if config == nil {
		config = DefaultArchiverConfig()
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{config.URL},
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	return &Archiver{
		base:   base,
		client: client,
		config: config,
	}, nil
}

// SaveRound records the round in the base repository and queues it for
// indexing.
func (a *Archiver) SaveRound(ctx context.Context, result *entities.RoundResult) error {
	if err := a.base.SaveRound(ctx, result); err != nil {
		return err
	}

	a.mu.Lock()
	resCopy := *result
	a.pending = append(a.pending, &resCopy)
	full := len(a.pending) >= a.config.BatchSize
	a.mu.Unlock()

	if full {
		// Best effort; a failed flush keeps the batch queued.
		_ = a.Flush(ctx)
	}
	return nil
}

// GetRounds delegates to the base repository
func (a *Archiver) GetRounds(ctx context.Context, game string, limit int) ([]*entities.RoundResult, error) {
	return a.base.GetRounds(ctx, game, limit)
}

// Pending returns the number of rounds queued for indexing.
func (a *Archiver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Flush bulk-indexes all pending rounds. On failure the batch stays
// queued for the next flush.
func (a *Archiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.pending
	a.pending = nil
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, r := range batch {
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, a.config.Index, r.ID)
		buf.WriteString(meta)
		buf.WriteByte('\n')

		doc, err := json.Marshal(r)
		if err != nil {
			continue
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Body:  bytes.NewReader(buf.Bytes()),
		Index: a.config.Index,
	}

	res, err := req.Do(ctx, a.client)
	if err != nil {
		a.requeue(batch)
		return fmt.Errorf("error executing bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		a.requeue(batch)
		return fmt.Errorf("bulk request failed: %s", res.Status())
	}
	return nil
}

func (a *Archiver) requeue(batch []*entities.RoundResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(batch, a.pending...)
}
