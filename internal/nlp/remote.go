package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteSummarizer calls a Hugging Face style summarization endpoint.
type RemoteSummarizer struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewRemoteSummarizer(url, token string, timeout time.Duration) *RemoteSummarizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteSummarizer{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type summarizeRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters summarizeParameters `json:"parameters"`
}

type summarizeParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

func (s *RemoteSummarizer) Summarize(ctx context.Context, text string, minLen, maxLen int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	body, err := json.Marshal(summarizeRequest{
		Inputs:     text,
		Parameters: summarizeParameters{MinLength: minLen, MaxLength: maxLen},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("summarizer failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result []summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("summarizer returned no results")
	}
	return result[0].SummaryText, nil
}
