package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emanmohamed354/backend-diabetic/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPredictTestApp(endpoint string) *fiber.App {
	client := services.NewPredictClient(endpoint, 2*time.Second)
	handler := NewPredictHandler(client)

	app := fiber.New(fiber.Config{BodyLimit: MaxUploadSize + 1024*1024})
	app.Post("/predict", handler.Predict)
	return app
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestPredict_MissingFile(t *testing.T) {
	app := newPredictTestApp("http://127.0.0.1:1/predict")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("notfile", "x"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPredict_PayloadTooLarge(t *testing.T) {
	var upstreamHits int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamHits, 1)
	}))
	defer upstream.Close()

	app := newPredictTestApp(upstream.URL)

	oversized := make([]byte, MaxUploadSize+1)
	body, contentType := multipartUpload(t, "big.png", "image/png", oversized)

	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, 15000)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	// Rejected before anything left the process.
	assert.Equal(t, int64(0), atomic.LoadInt64(&upstreamHits))
}

func TestPredict_RelaysUpstream(t *testing.T) {
	var gotFilename string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotFilename = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"predicted_class":2,"confidence":0.91}`))
	}))
	defer upstream.Close()

	app := newPredictTestApp(upstream.URL)

	body, contentType := multipartUpload(t, "retina.jpg", "image/jpeg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	relayed, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"predicted_class":2,"confidence":0.91}`, string(relayed))
	assert.Equal(t, "retina.jpg", gotFilename)
}

func TestPredict_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := upstream.URL
	upstream.Close()

	app := newPredictTestApp(endpoint)

	body, contentType := multipartUpload(t, "retina.jpg", "image/jpeg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
