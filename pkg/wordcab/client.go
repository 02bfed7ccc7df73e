package wordcab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is a non-2xx response from the Wordcab API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wordcab api returned %d, %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckCredentials accepts the pair when the token authenticates and, if the account reports an
// email, it matches the one given.
func (c *Client) CheckCredentials(ctx context.Context, email, token string) error {
	var account Account
	err := c.do(ctx, http.MethodGet, "/me", token, nil, nil, &account)

	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if len(account.Email) > 0 && !strings.EqualFold(account.Email, strings.TrimSpace(email)) {
		return ErrInvalidCredentials
	}

	return nil
}

func (c *Client) StartSummary(ctx context.Context, token string, r *SummaryRequest) (*Job, error) {
	query := url.Values{}
	query.Set("source", "generic")
	query.Set("display_name", r.DisplayName)
	query.Set("summary_type", r.SummaryType)
	query.Set("source_lang", r.SourceLang)
	query.Set("target_lang", r.SourceLang)
	query.Set("summary_lens", strconv.Itoa(r.SummaryLength))
	if len(r.Tags) > 0 {
		query.Set("tags", strings.Join(r.Tags, ","))
	}

	body := map[string]any{"transcript": r.Transcript}

	var job Job
	if err := c.do(ctx, http.MethodPost, "/summarize", token, query, body, &job); err != nil {
		return nil, fmt.Errorf("error starting summary, %w", err)
	}
	if len(job.JobName) == 0 {
		return nil, errors.New("error starting summary, no job name returned")
	}

	return &job, nil
}

func (c *Client) RetrieveJob(ctx context.Context, token, jobName string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(jobName), token, nil, nil, &job); err != nil {
		return nil, fmt.Errorf("error retrieving job, %w", err)
	}
	return &job, nil
}

func (c *Client) RetrieveSummary(ctx context.Context, token, summaryID string) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/summaries/"+url.PathEscape(summaryID), token, nil, nil, &summary); err != nil {
		return nil, fmt.Errorf("error retrieving summary, %w", err)
	}
	return &summary, nil
}

func (c *Client) DeleteJob(ctx context.Context, token, jobName string) error {
	if err := c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(jobName), token, nil, nil, nil); err != nil {
		return fmt.Errorf("error deleting job, %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request, %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response, %w", err)
	}

	return nil
}
