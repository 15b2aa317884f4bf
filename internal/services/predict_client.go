package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"syscall"
	"time"
)

var (
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstreamTimeout     = errors.New("upstream timeout")
)

// PredictResult carries the upstream response to be relayed verbatim.
type PredictResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// PredictClient forwards uploaded images to the external inference
// endpoint. One attempt per call, no retry; the inbound size ceiling is
// enforced by the handler, the outbound leg is unbounded.
type PredictClient struct {
	endpoint string
	client   *http.Client
}

func NewPredictClient(endpoint string, timeout time.Duration) *PredictClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PredictClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *PredictClient) Endpoint() string {
	return p.endpoint
}

// Forward re-encodes the file as a multipart body, preserving filename and
// content type, and posts it to the inference endpoint. Transport failures
// are classified into ErrUpstreamTimeout / ErrUpstreamUnreachable; any
// upstream HTTP response, success or not, comes back as a PredictResult.
func (p *PredictClient) Forward(ctx context.Context, filename, contentType string, data []byte) (*PredictResult, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return &PredictResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// classify maps transport errors onto the failure taxonomy. Timeouts are
// checked first since a timed-out dial is still a timeout, not an
// unreachable host.
func (p *PredictClient) classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}

	return fmt.Errorf("failed to contact inference endpoint: %w", err)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, `\"`).Replace(s)
}
