package retrieval

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agriguard/agriguard-go/internal/upstream"
)

const queryTimeout = 5 * time.Second

// Client queries the knowledge retrieval collaborator (a thin HTTP front on
// the vector index). Retrieval is an optional enrichment: callers treat any
// error as "no snippets" and continue.
type Client struct {
	endpoints *upstream.Endpoints
	log       zerolog.Logger
}

// NewClient creates a new retrieval client.
func NewClient(addrs []string, log zerolog.Logger) *Client {
	return &Client{
		endpoints: upstream.NewEndpoints("rag", addrs, log),
		log:       log.With().Str("client", "rag").Logger(),
	}
}

// Snippet is one retrieved knowledge passage with its similarity score.
type Snippet struct {
	Text       string  `json:"text"`
	Similarity float64 `json:"score"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// queryResponse mirrors the vector store's nested result shape: one inner
// list per query text.
type queryResponse struct {
	Results struct {
		Documents [][]string  `json:"documents"`
		Distances [][]float64 `json:"distances"`
	} `json:"results"`
}

// Query returns up to topK snippets ranked by similarity. Distance converts
// to similarity as 1 - distance.
func (c *Client) Query(ctx context.Context, query string, topK int) ([]Snippet, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var resp queryResponse
	if err := c.endpoints.Post(ctx, "/query", queryRequest{Query: query, TopK: topK}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results.Documents) == 0 {
		return nil, nil
	}

	docs := resp.Results.Documents[0]
	var dists []float64
	if len(resp.Results.Distances) > 0 {
		dists = resp.Results.Distances[0]
	}

	snippets := make([]Snippet, 0, len(docs))
	for i, doc := range docs {
		s := Snippet{Text: doc}
		if i < len(dists) {
			s.Similarity = 1 - dists[i]
		}
		snippets = append(snippets, s)
	}

	c.log.Debug().Int("snippets", len(snippets)).Msg("Knowledge retrieval complete")

	return snippets, nil
}

// Health probes the retrieval service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return c.endpoints.Get(ctx, "/health", nil)
}
