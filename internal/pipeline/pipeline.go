// Package pipeline chains the redaction and query services for one input.
package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// ServiceError is a non-200 answer from one of the services.
type ServiceError struct {
	Service string
	Status  int
	Body    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Service, e.Status, e.Body)
}

type textRequest struct {
	Text string `json:"text"`
}

type redactionResponse struct {
	RedactedText *string `json:"redacted_text"`
}

type queryResponse struct {
	ResponseText *string `json:"response_text"`
}

// Client calls the two services in order. No retries.
type Client struct {
	http      *http.Client
	redactURL string
	queryURL  string
}

// New returns a Client. A nil httpClient means http.DefaultClient.
func New(httpClient *http.Client, redactURL, queryURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, redactURL: redactURL, queryURL: queryURL}
}

// Redact sends raw text to the redaction service.
func (c *Client) Redact(ctx context.Context, requestID, text string) (string, error) {
	var resp redactionResponse
	if err := c.post(ctx, "redaction", c.redactURL, requestID, text, &resp); err != nil {
		return "", err
	}
	if resp.RedactedText == nil {
		return "", errors.New("redaction API response has no redacted_text")
	}
	return *resp.RedactedText, nil
}

// Query sends redacted text to the query service.
func (c *Client) Query(ctx context.Context, requestID, text string) (string, error) {
	var resp queryResponse
	if err := c.post(ctx, "query", c.queryURL, requestID, text, &resp); err != nil {
		return "", err
	}
	if resp.ResponseText == nil {
		return "", errors.New("query API response has no response_text")
	}
	return *resp.ResponseText, nil
}

func (c *Client) post(ctx context.Context, service, url, requestID, text string, out any) error {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s API unavailable: %w", service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s API response: %w", service, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Service: service, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s API response: %w", service, err)
	}
	return nil
}

// Run prompts for one line on in, then redacts it and asks the query service,
// printing both results to out. The first failing step ends the run; its error
// is printed and returned. Empty input is sent like any other.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "Enter text to be redacted: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read input: %w", err)
	}
	text := strings.TrimRight(line, "\r\n")

	// One id for both hops so the two services' logs line up.
	runID := uuid.NewString()

	redacted, err := c.Redact(ctx, runID, text)
	if err != nil {
		fmt.Fprintln(out, "Error in redaction API:", describe(err))
		return err
	}
	fmt.Fprintln(out, "\nRedacted Text:", redacted)

	final, err := c.Query(ctx, runID, redacted)
	if err != nil {
		fmt.Fprintln(out, "Error in query API:", describe(err))
		return err
	}
	fmt.Fprintln(out, "\nFinal LLM Response:", final)
	return nil
}

func describe(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Body
	}
	return err.Error()
}
