package frontier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/frontier"
)

const route = "/efficient-frontier"

// Client posts a returns file to {endpoint}/efficient-frontier. There is no
// caching: every Submit is its own request.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient keeps the endpoint as given; an empty endpoint is only reported
// when Submit is called. A nil httpClient means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: strings.TrimSpace(endpoint), http: httpClient}
}

func (c *Client) Submit(ctx context.Context, f domain.File) (domain.Result, error) {
	if c.endpoint == "" {
		return domain.Result{}, fmt.Errorf("%w: missing ANALYSIS_ENDPOINT", errs.ErrConfiguration)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return domain.Result{}, err
	}
	if _, err := part.Write(f.Data); err != nil {
		return domain.Result{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.Result{}, err
	}

	url := strings.TrimSuffix(c.endpoint, "/") + route
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return domain.Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("efficient frontier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return domain.Result{}, &errs.BackendError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read efficient frontier response: %w", err)
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json") {
		var out domain.Result
		if err := json.Unmarshal(raw, &out); err != nil {
			return domain.Result{}, fmt.Errorf("%w: %v", errs.ErrMalformedResponse, err)
		}
		return out, nil
	}
	return ParsePlaintext(string(raw))
}

// ParsePlaintext reads "fund name<whitespace>weight" lines. The last token is
// the weight, the rest joined by one space is the fund. Lines without a fund
// or with a non-finite weight are dropped; zero surviving lines is an error.
func ParsePlaintext(raw string) (domain.Result, error) {
	var weights []domain.Weight
	for _, line := range strings.Split(raw, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		fund := strings.Join(parts[:len(parts)-1], " ")
		w, err := strconv.ParseFloat(parts[len(parts)-1], 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		weights = append(weights, domain.Weight{Fund: fund, Weight: w})
	}
	if len(weights) == 0 {
		return domain.Result{}, errs.ErrMalformedResponse
	}
	return domain.Result{Weights: weights, RawText: &raw}, nil
}
