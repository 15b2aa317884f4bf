package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictClient_RelaysUpstreamResponse(t *testing.T) {
	t.Parallel()

	var gotFilename, gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename
		gotContentType = header.Header.Get("Content-Type")
		body, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("fundus-image-bytes"), body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"not a retina image"}`))
	}))
	defer upstream.Close()

	client := NewPredictClient(upstream.URL, 5*time.Second)
	result, err := client.Forward(context.Background(), "scan.png", "image/png", []byte("fundus-image-bytes"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
	assert.JSONEq(t, `{"detail":"not a retina image"}`, string(result.Body))
	assert.Equal(t, "application/json", result.ContentType)
	assert.Equal(t, "scan.png", gotFilename)
	assert.Equal(t, "image/png", gotContentType)
}

func TestPredictClient_DefaultsContentType(t *testing.T) {
	t.Parallel()

	var gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotContentType = header.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	client := NewPredictClient(upstream.URL, 5*time.Second)
	_, err := client.Forward(context.Background(), "scan.bin", "", []byte{0x1})
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestPredictClient_Unreachable(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := upstream.URL
	upstream.Close()

	client := NewPredictClient(endpoint, 5*time.Second)
	_, err := client.Forward(context.Background(), "scan.png", "image/png", []byte{0x1})
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestPredictClient_Timeout(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer upstream.Close()

	client := NewPredictClient(upstream.URL, 50*time.Millisecond)
	_, err := client.Forward(context.Background(), "scan.png", "image/png", []byte{0x1})
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
}
