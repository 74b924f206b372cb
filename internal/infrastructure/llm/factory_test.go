package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/entity"
	apperrors "gemini-chat-api/pkg/errors"
)

func TestNewGeneratorDummy(t *testing.T) {
	gen, cleanup, err := NewGenerator(context.Background(), &config.LLMConfig{Provider: "dummy"})
	require.NoError(t, err)
	defer cleanup()

	text, err := gen.Generate(context.Background(), entity.BuildProviderRequest(&entity.GenerationRequest{
		Mode:   entity.ModeText,
		Prompt: "hello",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", text)
}

func TestNewGeneratorErrors(t *testing.T) {
	_, _, err := NewGenerator(context.Background(), &config.LLMConfig{Provider: "mystery"})
	assert.Error(t, err)

	_, _, err = NewGenerator(context.Background(), &config.LLMConfig{Provider: "openai"})
	assert.Error(t, err, "openai without key")

	_, _, err = NewGenerator(context.Background(), &config.LLMConfig{Provider: "gemini"})
	assert.Error(t, err, "gemini without key")
}

func TestNewGeneratorOpenAI(t *testing.T) {
	gen, cleanup, err := NewGenerator(context.Background(), &config.LLMConfig{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, gen)
}

func TestDummyRecordsCallsAndErrors(t *testing.T) {
	d := NewDummy()
	req := entity.BuildProviderRequest(&entity.GenerationRequest{
		Mode:       entity.ModeImage,
		Prompt:     "look",
		Attachment: &entity.Attachment{Data: []byte("abc"), MIMEType: "image/gif"},
	})

	text, err := d.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Echo: look [image/gif, 4 base64 chars]", text)
	assert.Len(t, d.Calls(), 1)

	d.Err = apperrors.Upstream(errors.New("down"), "down")
	_, err = d.Generate(context.Background(), req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))
	assert.Len(t, d.Calls(), 2)
}
