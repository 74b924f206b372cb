package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gemini-chat-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorJSON(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorJSON())
	engine.GET("/app-error", func(c *gin.Context) {
		_ = c.Error(apperrors.UnsupportedMedia("Only images are allowed"))
	})
	engine.GET("/plain-error", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	engine.GET("/status-only", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})
	engine.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("ignored"))
		c.JSON(http.StatusOK, gin.H{"result": "ok"})
	})

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/app-error", http.StatusUnsupportedMediaType, "Only images are allowed"},
		{"/plain-error", http.StatusInternalServerError, "boom"},
		{"/status-only", http.StatusTeapot, http.StatusText(http.StatusTeapot)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, errorBody(t, rec)["error"])
		})
	}

	t.Run("handler response wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/written", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"result":"ok"}`, rec.Body.String())
	})
}

func TestRecoveryRendersInternalError(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(), ErrorJSON())
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec)["error"])
}
