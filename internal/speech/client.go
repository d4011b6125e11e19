package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// Client proxies transcription and analysis requests to the external speech
// service. Responses are relayed verbatim as raw JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SpeechToText submits an audio recording for transcription.
func (c *Client) SpeechToText(ctx context.Context, filename, contentType string, audio io.Reader) (json.RawMessage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writeAudioPart(writer, filename, contentType, audio); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}
	return c.post(ctx, "/speech-to-text", writer.FormDataContentType(), &body)
}

// Analyze submits a transcription (and optionally the audio it came from)
// for grammar analysis. Pass a nil audio reader to analyze text only.
func (c *Client) Analyze(ctx context.Context, text, filename, contentType string, audio io.Reader) (json.RawMessage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("text", text); err != nil {
		return nil, fmt.Errorf("write text field: %w", err)
	}
	if audio != nil {
		if err := writeAudioPart(writer, filename, contentType, audio); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}
	return c.post(ctx, "/analyze", writer.FormDataContentType(), &body)
}

func writeAudioPart(writer *multipart.Writer, filename, contentType string, audio io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create audio part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call speech service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("speech service returned %d", resp.StatusCode)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("speech service returned non-JSON payload")
	}
	return payload, nil
}
