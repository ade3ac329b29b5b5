package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20 // 1MB
)

// Client envuelve *http.Client con helpers comunes para adapters externos
// (IAM, plans-features). JSON in/out, errores normalizados.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, DoJSON puede recibir paths relativos
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{Timeout: timeout},
	}
}

func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// DoJSON hace un request JSON.
// - in: body a enviar (opcional, nil => sin body)
// - out: donde decodificar la respuesta (opcional, nil => se ignora)
// Retorna *HTTPError si el status no es 2xx.
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, headers map[string]string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}
