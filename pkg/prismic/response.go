package prismic

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Response is one page of search results.
type Response struct {
	Results          []*Document
	Page             int
	ResultsPerPage   int
	ResultsSize      int
	TotalResultsSize int
	TotalPages       int
	NextPage         string
	PrevPage         string
}

type wireResponse struct {
	Results          []jsoniter.RawMessage `json:"results"`
	Page             int                   `json:"page"`
	ResultsPerPage   int                   `json:"results_per_page"`
	ResultsSize      int                   `json:"results_size"`
	TotalResultsSize int                   `json:"total_results_size"`
	TotalPages       int                   `json:"total_pages"`
	NextPage         string                `json:"next_page"`
	PrevPage         string                `json:"prev_page"`
}

func parseResponse(conn *connection, body []byte) (*Response, error) {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	resp := &Response{
		Results:          make([]*Document, 0, len(w.Results)),
		Page:             w.Page,
		ResultsPerPage:   w.ResultsPerPage,
		ResultsSize:      w.ResultsSize,
		TotalResultsSize: w.TotalResultsSize,
		TotalPages:       w.TotalPages,
		NextPage:         w.NextPage,
		PrevPage:         w.PrevPage,
	}
	for i, raw := range w.Results {
		doc, err := ParseDocumentWith(conn.registry, raw)
		if err != nil {
			conn.log.WithError(err).WithField("index", i).Warn("Skipping unreadable document")
			continue
		}
		resp.Results = append(resp.Results, doc)
	}
	return resp, nil
}

// HasNextPage reports whether more results follow.
func (r *Response) HasNextPage() bool { return r.NextPage != "" }
