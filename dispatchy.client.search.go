package dispatchy

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// SerpAPI constants
const (
	serpBaseURL          = "https://serpapi.com"
	serpSearchPath       = "/search"
	serpEngine           = "google"
	searchRequestTimeout = 20 * time.Second
)

// SearchClient answers free-form questions through SerpAPI, preferring the
// answer box and falling back to the first organic result snippet.
type SearchClient struct {
	http   *resty.Client
	apiKey string
}

// NewSearchClient creates a client authenticated with the given SerpAPI key.
func NewSearchClient(apiKey string) *SearchClient {
	return &SearchClient{
		http: resty.New().
			SetBaseURL(serpBaseURL).
			SetTimeout(searchRequestTimeout),
		apiKey: apiKey,
	}
}

// serpResponse is the subset of the search response the client reads.
type serpResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Result  string `json:"result"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Answer runs a web search and returns the best short answer, or ok=false
// when the results contain nothing usable.
func (c *SearchClient) Answer(ctx context.Context, query string) (string, bool, error) {
	var result serpResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  serpEngine,
			"q":       query,
			"api_key": c.apiKey,
		}).
		SetResult(&result).
		Get(serpSearchPath)
	if err != nil {
		return "", false, NewCapabilityError(ErrMsgSearchLookup, err)
	}
	if resp.IsError() {
		return "", false, NewCapabilityStatusError(ErrMsgSearchLookup, resp.StatusCode())
	}

	for _, candidate := range []string{
		result.AnswerBox.Answer,
		result.AnswerBox.Result,
		result.AnswerBox.Snippet,
	} {
		if candidate != "" {
			return candidate, true, nil
		}
	}
	if len(result.OrganicResults) > 0 && result.OrganicResults[0].Snippet != "" {
		return result.OrganicResults[0].Snippet, true, nil
	}
	return "", false, nil
}
