package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CTCConfig holds configuration for the CTC inference server backend.
type CTCConfig struct {
	BaseURL string // default: "http://localhost:8178"
	Model   string // optional model identifier forwarded to the server
}

// CTCClient sends segment WAVs to a CTC inference HTTP server and returns the
// decoded text. The server owns model weights and device placement.
type CTCClient struct {
	cfg        CTCConfig
	httpClient *http.Client
}

// NewCTCClient creates a CTCClient with defaults applied.
func NewCTCClient(cfg CTCConfig) *CTCClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8178"
	}
	return &CTCClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (c *CTCClient) Name() string { return "ctc" }

// Transcribe uploads the segment file as a multipart request.
func (c *CTCClient) Transcribe(ctx context.Context, req Request) (*Result, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("open audio file: %w", err)}
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err = io.Copy(fw, f); err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("copy audio data: %w", err)}
	}

	if req.SampleRate > 0 {
		_ = mw.WriteField("sample_rate", strconv.Itoa(req.SampleRate))
	}
	if c.cfg.Model != "" {
		_ = mw.WriteField("model", c.cfg.Model)
	}

	if err = mw.Close(); err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/transcribe", &body)
	if err != nil {
		return nil, &Error{Provider: c.Name(), Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("transcription request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, string(respBody))}
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, &Error{Provider: c.Name(), Err: fmt.Errorf("parse response: %w", err)}
	}

	return &Result{Text: apiResp.Text}, nil
}
