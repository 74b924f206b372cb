package dispatch

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

// stubGenerator 记录收到的请求并返回预设结果
type stubGenerator struct {
	mu    sync.Mutex
	calls []*entity.ProviderRequest
	text  string
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, req *entity.ProviderRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return s.text, s.err
}

func (s *stubGenerator) last(t *testing.T) *entity.ProviderRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

func TestGenerateTextRequiresPrompt(t *testing.T) {
	gen := &stubGenerator{text: "hi"}
	svc := NewService(gen, 1024)

	_, err := svc.GenerateText(context.Background(), "")
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, "Prompt is required", appErr.Message)
	assert.Empty(t, gen.calls)
}

func TestGenerateTextForwardsVerbatim(t *testing.T) {
	gen := &stubGenerator{text: "provider text"}
	svc := NewService(gen, 1024)

	res, err := svc.GenerateText(context.Background(), "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "provider text", res.Text)

	req := gen.last(t)
	require.Len(t, req.Parts, 1)
	assert.Equal(t, "  hello  ", req.Parts[0].Text)
	assert.Nil(t, req.Inline())
}

func TestGenerateFallbackText(t *testing.T) {
	svc := NewService(&stubGenerator{}, 1024)

	res, err := svc.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, entity.NoResponseText, res.Text)
}

func TestGenerateFromImageBuildsInlinePart(t *testing.T) {
	gen := &stubGenerator{text: "a cat"}
	svc := NewService(gen, 1024)

	att := &entity.Attachment{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png", Filename: "cat.png"}
	res, err := svc.GenerateFromImage(context.Background(), "", att)
	require.NoError(t, err)
	assert.Equal(t, "a cat", res.Text)

	req := gen.last(t)
	require.Len(t, req.Parts, 2)
	assert.Equal(t, DefaultImagePrompt, req.Parts[0].Text)
	require.NotNil(t, req.Parts[1].InlineData)
	assert.Equal(t, "image/png", req.Parts[1].InlineData.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(att.Data), req.Parts[1].InlineData.Data)
}

func TestGenerateFromImageRejectsNonImage(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, 1024)

	_, err := svc.GenerateFromImage(context.Background(), "", &entity.Attachment{Data: []byte("x"), MIMEType: "text/plain"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, apperrors.AsAppError(err).HTTPStatus)
	assert.Empty(t, gen.calls)
}

func TestGenerateMissingAttachment(t *testing.T) {
	svc := NewService(&stubGenerator{}, 1024)

	tests := []struct {
		call func() error
		msg  string
	}{
		{func() error { _, err := svc.GenerateFromImage(context.Background(), "p", nil); return err }, "Image file is required"},
		{func() error { _, err := svc.GenerateFromAudio(context.Background(), "p", nil); return err }, "Audio file is required"},
		{func() error { _, err := svc.GenerateFromDocument(context.Background(), "p", nil); return err }, "Document file is required"},
	}
	for _, tc := range tests {
		err := tc.call()
		require.Error(t, err)
		appErr := apperrors.AsAppError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
		assert.Equal(t, tc.msg, appErr.Message)
	}
}

func TestGenerateFromAudioNormalizesByExtension(t *testing.T) {
	gen := &stubGenerator{text: "transcript"}
	svc := NewService(gen, 1024)

	res, err := svc.GenerateFromAudio(context.Background(), "", &entity.Attachment{Data: []byte("aud"), Filename: "voice.m4a"})
	require.NoError(t, err)
	assert.Equal(t, "transcript", res.Text)

	req := gen.last(t)
	assert.Equal(t, DefaultAudioPrompt, req.Parts[0].Text)
	assert.Equal(t, "audio/m4a", req.Inline().MIMEType)
}

func TestGenerateFromAudioUnsupported(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, 1024)

	_, err := svc.GenerateFromAudio(context.Background(), "", &entity.Attachment{Data: []byte("x"), Filename: "clip.xyz"})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.KindUnsupportedMedia, appErr.Kind)
	assert.Equal(t, http.StatusUnsupportedMediaType, appErr.HTTPStatus)
	assert.Equal(t, "Unsupported audio type: application/octet-stream", appErr.Message)
	assert.Empty(t, gen.calls)
}

func TestGenerateFromDocument(t *testing.T) {
	gen := &stubGenerator{text: "- point"}
	svc := NewService(gen, 1024)

	_, err := svc.GenerateFromDocument(context.Background(), "Extract action items.", &entity.Attachment{Data: []byte("%PDF"), MIMEType: MIMEPDF})
	require.NoError(t, err)
	req := gen.last(t)
	assert.Equal(t, "Extract action items.", req.Parts[0].Text)
	assert.Equal(t, MIMEPDF, req.Inline().MIMEType)

	_, err = svc.GenerateFromDocument(context.Background(), "", &entity.Attachment{Data: []byte("x"), MIMEType: "image/png"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, apperrors.AsAppError(err).HTTPStatus)
}

func TestGenerateSizeLimit(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, 4)

	_, err := svc.GenerateFromImage(context.Background(), "", &entity.Attachment{Data: []byte("12345"), MIMEType: "image/png"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSizeLimit, apperrors.KindOf(err))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apperrors.AsAppError(err).HTTPStatus)
	assert.Empty(t, gen.calls)
}

func TestGenerateProviderErrorKinds(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		mode       entity.Mode
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "upstream text is prefixed",
			err:        apperrors.Upstream(errors.New("boom"), "boom"),
			mode:       entity.ModeText,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to generate text: boom",
		},
		{
			name:       "upstream audio is raw",
			err:        apperrors.Upstream(errors.New("boom"), "boom"),
			mode:       entity.ModeAudio,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
		{
			name:       "validation passes through",
			err:        apperrors.Validation("Request payload exceeds limit"),
			mode:       entity.ModeDocument,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Request payload exceeds limit",
		},
		{
			name:       "plain error is upstream",
			err:        errors.New("connection reset"),
			mode:       entity.ModeImage,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Failed to generate image description: connection reset",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&stubGenerator{err: tc.err}, 1024)
			req := &entity.GenerationRequest{Mode: tc.mode, Prompt: "p"}
			if tc.mode.RequiresAttachment() {
				mt := map[entity.Mode]string{entity.ModeImage: "image/jpeg", entity.ModeAudio: "audio/wav", entity.ModeDocument: MIMEPDF}[tc.mode]
				req.Attachment = &entity.Attachment{Data: []byte("x"), MIMEType: mt}
			}

			_, err := svc.Generate(context.Background(), req)
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, tc.wantStatus, appErr.HTTPStatus)
			assert.Equal(t, tc.wantMsg, appErr.Message)
		})
	}
}

func TestGenerateDoesNotMutateRequest(t *testing.T) {
	svc := NewService(&stubGenerator{text: "ok"}, 1024)
	att := &entity.Attachment{Data: []byte("x"), MIMEType: "audio/mp4", Filename: "a.m4a"}

	_, err := svc.GenerateFromAudio(context.Background(), "", att)
	require.NoError(t, err)
	assert.Equal(t, "audio/mp4", att.MIMEType)
}
