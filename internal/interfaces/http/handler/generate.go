package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gemini-chat-api/internal/application/dispatch"
	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/interfaces/http/dto"
	apperrors "gemini-chat-api/pkg/errors"
	"gemini-chat-api/pkg/logger"
)

// GenerateHandler 四个生成端点的处理器
type GenerateHandler struct {
	svc *dispatch.Service
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(svc *dispatch.Service) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

// GenerateText 文本生成
// @Summary 文本生成
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateTextRequest true "提示词"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate-text [post]
func (h *GenerateHandler) GenerateText(c *gin.Context) {
	req := dto.BindGenerateText(c)

	result, err := h.svc.GenerateText(c.Request.Context(), req.Prompt)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Result(c, result.Text)
}

// GenerateFromImage 图片理解，multipart 字段 image
// @Router /generate-from-image [post]
func (h *GenerateHandler) GenerateFromImage(c *gin.Context) {
	h.generateWithFile(c, entity.ModeImage)
}

// GenerateFromAudio 音频转写，multipart 字段 audio
// @Router /generate-from-audio [post]
func (h *GenerateHandler) GenerateFromAudio(c *gin.Context) {
	h.generateWithFile(c, entity.ModeAudio)
}

// GenerateFromDocument 文档摘要，multipart 字段 document
// @Router /generate-from-document [post]
func (h *GenerateHandler) GenerateFromDocument(c *gin.Context) {
	h.generateWithFile(c, entity.ModeDocument)
}

func (h *GenerateHandler) generateWithFile(c *gin.Context, mode entity.Mode) {
	ctx := c.Request.Context()

	att, err := h.readAttachment(c, mode)
	if err != nil {
		logger.Warn(ctx, "upload rejected", "mode", mode.String(), "error", err.Error())
		dto.AppError(c, err)
		return
	}

	result, err := h.svc.Generate(ctx, &entity.GenerationRequest{
		Mode:       mode,
		Prompt:     c.PostForm("prompt"),
		Attachment: att,
	})
	if err != nil {
		dto.AppError(c, err)
		return
	}
	dto.Result(c, result.Text)
}

// readAttachment 读取单个上传文件；声明类型在读取内容之前过滤
func (h *GenerateHandler) readAttachment(c *gin.Context, mode entity.Mode) (*entity.Attachment, error) {
	file, header, err := c.Request.FormFile(mode.FileField())
	if err != nil {
		if tooLarge(err) {
			return nil, h.sizeLimit()
		}
		return nil, apperrors.FileRequired(dispatch.MissingFileMessage(mode))
	}
	defer file.Close()

	declared := header.Header.Get("Content-Type")
	if err := dispatch.FilterUpload(mode, declared); err != nil {
		return nil, err
	}
	if limit := h.svc.MaxUploadBytes(); limit > 0 && header.Size > limit {
		return nil, h.sizeLimit()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if tooLarge(err) {
			return nil, h.sizeLimit()
		}
		return nil, apperrors.Validation("Failed to read upload").WithError(err)
	}

	return &entity.Attachment{
		Data:     data,
		MIMEType: declared,
		Filename: header.Filename,
	}, nil
}

func (h *GenerateHandler) sizeLimit() error {
	return apperrors.SizeLimit(fmt.Sprintf("File too large: max %d bytes", h.svc.MaxUploadBytes()))
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
