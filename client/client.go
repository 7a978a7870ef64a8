// Package client talks to the external drug interaction service.
// Each exported method performs exactly one HTTP call; nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/interactions-checker/entities"
	"github.com/giygas/interactions-checker/interfaces"
	"github.com/giygas/interactions-checker/logging"
	"github.com/giygas/interactions-checker/metrics"
	"golang.org/x/text/encoding/charmap"
	"resty.dev/v3"
)

const (
	EndpointProcessCurrentMeds    = "/process_current_meds"
	EndpointSearchConditions      = "/search_conditions"
	EndpointSearchDrugs           = "/search_drugs"
	EndpointCheckDrugInteractions = "/check_drug_interactions"
	EndpointTranslateDescription  = "/translate_description"
)

// Compile-time checks
var (
	_ interfaces.InteractionService = (*Client)(nil)
	_ interfaces.Prober             = (*Client)(nil)
)

// Client is the interaction service client
type Client struct {
	httpClient *resty.Client
	probeTerm  string
}

// NewClient creates a client for the service rooted at baseURL.
// probeTerm is the condition looked up by Probe.
func NewClient(baseURL, probeTerm string) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(baseURL, "/"))
	httpClient.SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		probeTerm:  probeTerm,
	}
}

// Close releases the underlying HTTP client
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// ProcessCurrentMeds sends the names to process_current_meds
func (c *Client) ProcessCurrentMeds(ctx context.Context, drugs []string) (*entities.CurrentMedsResponse, error) {
	var body struct {
		ValidDrugs    []entities.ValidDrug `json:"valid_drugs"`
		NotFoundDrugs *[]string            `json:"not_found_drugs"`
	}
	if err := c.post(ctx, EndpointProcessCurrentMeds, entities.CurrentMedsRequest{Drugs: drugs}, &body); err != nil {
		return nil, err
	}
	if body.NotFoundDrugs == nil {
		return nil, fmt.Errorf("%s: response has no not_found_drugs list", EndpointProcessCurrentMeds)
	}

	return &entities.CurrentMedsResponse{
		ValidDrugs:    body.ValidDrugs,
		NotFoundDrugs: *body.NotFoundDrugs,
	}, nil
}

// SearchConditions looks up the closest known condition
func (c *Client) SearchConditions(ctx context.Context, input string) (entities.ConditionMatches, error) {
	var matches entities.ConditionMatches
	if err := c.get(ctx, EndpointSearchConditions, input, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// SearchDrugs looks up the closest known drug name
func (c *Client) SearchDrugs(ctx context.Context, input string) (entities.ConditionMatches, error) {
	var matches entities.ConditionMatches
	if err := c.get(ctx, EndpointSearchDrugs, input, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// CheckDrugInteractions asks for interactions between the prescribed drug and the medications
func (c *Client) CheckDrugInteractions(ctx context.Context, req entities.InteractionRequest) (*entities.InteractionResponse, error) {
	var body struct {
		Interactions *[]entities.InteractionRecord `json:"interactions"`
	}
	if err := c.post(ctx, EndpointCheckDrugInteractions, req, &body); err != nil {
		return nil, err
	}
	if body.Interactions == nil {
		return nil, fmt.Errorf("%s: response has no interactions list", EndpointCheckDrugInteractions)
	}

	return &entities.InteractionResponse{Interactions: *body.Interactions}, nil
}

// TranslateDescription rewrites a professional description for patients
func (c *Client) TranslateDescription(ctx context.Context, professional string) (string, error) {
	var body entities.TranslationResponse
	req := entities.TranslationRequest{ProfessionalDescription: professional}
	if err := c.post(ctx, EndpointTranslateDescription, req, &body); err != nil {
		return "", err
	}
	return body.ConsumerDescription, nil
}

// Probe checks that the service answers. A 4xx still counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.SearchConditions(ctx, c.probeTerm)

	var upstreamErr *entities.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}

func (c *Client) get(ctx context.Context, endpoint, input string, out any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("input", input)

	return c.execute(endpoint, out, func() (*resty.Response, error) {
		return req.Get(endpoint)
	})
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)

	return c.execute(endpoint, out, func() (*resty.Response, error) {
		return req.Post(endpoint)
	})
}

func (c *Client) execute(endpoint string, out any, send func() (*resty.Response, error)) error {
	start := time.Now()
	response, err := send()
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveUpstream(endpoint, "error", elapsed.Seconds())
		logging.Warn("Interaction service call failed",
			"endpoint", endpoint,
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	metrics.ObserveUpstream(endpoint, strconv.Itoa(response.StatusCode()), elapsed.Seconds())
	logging.Debug("Interaction service call",
		"endpoint", endpoint,
		"status_code", response.StatusCode(),
		"duration_ms", elapsed.Milliseconds())

	raw := []byte(response.String())
	if response.IsError() {
		return &entities.UpstreamError{
			Endpoint:   endpoint,
			StatusCode: response.StatusCode(),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if err := decodeJSON(raw, out); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	return nil
}

// decodeJSON decodes raw into out. The service relays scraped pages, so a body
// that is not valid UTF-8 is read as ISO-8859-1.
func decodeJSON(raw []byte, out any) error {
	var reader io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		reader = charmap.ISO8859_1.NewDecoder().Reader(reader)
	}

	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
