package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-chat-api/internal/application/dispatch"
	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/infrastructure/llm"
	apperrors "gemini-chat-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "gemini-chat-api"
	cfg.App.Env = "test"
	cfg.LLM.Provider = "dummy"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	return cfg
}

func newTestRouter(t *testing.T, maxUpload int64) (*gin.Engine, *llm.Dummy) {
	t.Helper()
	dummy := llm.NewDummy()
	svc := dispatch.NewService(dummy, maxUpload)
	return New(testConfig(), svc).Engine(), dummy
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path, prompt string, file *filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if prompt != "" {
		require.NoError(t, w.WriteField("prompt", prompt))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRootDescribesEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"Gemini API is running. Endpoints: /generate-text, /generate-from-image, /generate-from-audio, /generate-from-document",
		rec.Body.String())
}

func TestGenerateText(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	req := httptest.NewRequest(http.MethodPost, "/generate-text", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(engine, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Echo: hello", decode(t, rec)["result"])
	require.Len(t, dummy.Calls(), 1)
	assert.Equal(t, "hello", dummy.Calls()[0].Text())
}

func TestGenerateTextMissingPrompt(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	for _, body := range []string{`{}`, `not json`, ``, `{"prompt":123}`, `{"prompt":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/generate-text", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(engine, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Prompt is required", decode(t, rec)["error"])
	}
	assert.Empty(t, dummy.Calls())
}

func TestGenerateTextUpstreamFailure(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)
	dummy.Err = apperrors.Upstream(errors.New("boom"), "quota exhausted")

	req := httptest.NewRequest(http.MethodPost, "/generate-text", strings.NewReader(`{"prompt":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(engine, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate text: quota exhausted", decode(t, rec)["error"])
}

func TestImageRejectsNonImageBeforeProvider(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-image", "", &filePart{
		field: "image", filename: "notes.txt", contentType: "text/plain", data: []byte("hi"),
	}))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "Only image files are allowed", decode(t, rec)["error"])
	assert.Empty(t, dummy.Calls())
}

func TestImageMissingFile(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-image", "what is it", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Image file is required", decode(t, rec)["error"])
}

func TestImageUsesDefaultPrompt(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-image", "", &filePart{
		field: "image", filename: "cat.png", contentType: "image/png", data: []byte("png-bytes"),
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, dummy.Calls(), 1)
	call := dummy.Calls()[0]
	assert.Equal(t, dispatch.DefaultPrompt(entity.ModeImage), call.Text())
	assert.Equal(t, "image/png", call.Inline().MIMEType)
}

func TestAudioInfersMIMEFromExtension(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-audio", "transcribe", &filePart{
		field: "audio", filename: "voice.m4a", data: []byte("m4a-bytes"),
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, dummy.Calls(), 1)
	assert.Equal(t, "audio/m4a", dummy.Calls()[0].Inline().MIMEType)
}

func TestAudioUnsupportedType(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-audio", "", &filePart{
		field: "audio", filename: "clip.xyz", data: []byte("???"),
	}))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "Unsupported audio type: application/octet-stream", decode(t, rec)["error"])
	assert.Empty(t, dummy.Calls())
}

func TestDocumentTypes(t *testing.T) {
	engine, dummy := newTestRouter(t, 1024)

	rec := serve(engine, multipartRequest(t, "/generate-from-document", "summarize", &filePart{
		field: "document", filename: "report.pdf", contentType: "application/pdf", data: []byte("%PDF"),
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", dummy.Calls()[0].Inline().MIMEType)

	rec = serve(engine, multipartRequest(t, "/generate-from-document", "", &filePart{
		field: "document", filename: "pic.png", contentType: "image/png", data: []byte("png"),
	}))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "Only PDF, TXT, DOCX are allowed", decode(t, rec)["error"])
}

func TestOversizeUpload(t *testing.T) {
	engine, dummy := newTestRouter(t, 16)

	rec := serve(engine, multipartRequest(t, "/generate-from-image", "", &filePart{
		field: "image", filename: "big.png", contentType: "image/png", data: bytes.Repeat([]byte("x"), 64),
	}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large: max 16 bytes", decode(t, rec)["error"])
	assert.Empty(t, dummy.Calls())
}

func TestOversizeUploadCutOffWhileStreaming(t *testing.T) {
	engine, dummy := newTestRouter(t, 16)

	rec := serve(engine, multipartRequest(t, "/generate-from-image", "", &filePart{
		field: "image", filename: "huge.png", contentType: "image/png", data: bytes.Repeat([]byte("x"), 2<<20),
	}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large: max 16 bytes", decode(t, rec)["error"])
	assert.Empty(t, dummy.Calls())
}

func TestPanicRendersInternalError(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["error"])
}

func TestUnknownRouteAndMethod(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode(t, rec)["error"])

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/generate-text", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decode(t, rec)["error"])
}

func TestSystemEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		rec := serve(engine, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	notReady := New(testConfig(), nil).Engine()
	rec := serve(notReady, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSAndRequestID(t *testing.T) {
	engine, _ := newTestRouter(t, 1024)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("X-Request-ID", "req-123")
	rec := serve(engine, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
