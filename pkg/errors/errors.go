// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeUnknown       ErrorCode = "1000"
	CodeInvalidParam  ErrorCode = "1001"
	CodeNotFound      ErrorCode = "1004"
	CodeMethodInvalid ErrorCode = "1005"
	CodeInternalError ErrorCode = "1007"

	// 上传错误 (3xxx)
	CodeFileRequired     ErrorCode = "3001"
	CodeFileTypeRejected ErrorCode = "3002"
	CodeUnsupportedMedia ErrorCode = "3003"
	CodeFileTooLarge     ErrorCode = "3004"

	// 外部服务错误 (5xxx)
	CodeLLMProviderError ErrorCode = "5005"
)

// Kind 错误分类，决定 HTTP 状态码的选择
type Kind string

const (
	KindValidation       Kind = "validation"
	KindUnsupportedMedia Kind = "unsupported-media"
	KindSizeLimit        Kind = "size-limit"
	KindUpstream         Kind = "upstream-failure"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Kind       Kind      `json:"kind"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// WithStatus 覆盖默认 HTTP 状态码
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	kind := codeToKind(code)
	return &AppError{
		Code:       code,
		Kind:       kind,
		Message:    message,
		HTTPStatus: kindToHTTPStatus(code, kind),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Err = err
	return e
}

// Validation 创建参数校验错误 (400)
func Validation(message string) *AppError {
	return New(CodeInvalidParam, message)
}

// FileRequired 创建缺少上传文件错误 (400)
func FileRequired(message string) *AppError {
	return New(CodeFileRequired, message)
}

// FileTypeRejected 创建上传过滤器拒绝文件类型的错误 (415)
func FileTypeRejected(message string) *AppError {
	return New(CodeFileTypeRejected, message)
}

// UnsupportedMedia 创建不支持的媒体类型错误 (415)
func UnsupportedMedia(message string) *AppError {
	return New(CodeUnsupportedMedia, message)
}

// SizeLimit 创建超出大小限制错误 (413)
func SizeLimit(message string) *AppError {
	return New(CodeFileTooLarge, message)
}

// Upstream 创建上游模型调用失败错误 (500)
func Upstream(err error, message string) *AppError {
	return Wrap(err, CodeLLMProviderError, message)
}

// codeToKind 错误码转错误分类
func codeToKind(code ErrorCode) Kind {
	switch code {
	case CodeInvalidParam, CodeFileRequired, CodeFileTypeRejected, CodeNotFound, CodeMethodInvalid:
		return KindValidation
	case CodeUnsupportedMedia:
		return KindUnsupportedMedia
	case CodeFileTooLarge:
		return KindSizeLimit
	default:
		return KindUpstream
	}
}

// kindToHTTPStatus 错误分类转 HTTP 状态码
func kindToHTTPStatus(code ErrorCode, kind Kind) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodInvalid:
		return http.StatusMethodNotAllowed
	case CodeFileTypeRejected:
		// 上传过滤器拒绝的类型属于校验错误，但按媒体类型语义返回 415
		return http.StatusUnsupportedMediaType
	}

	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindSizeLimit:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
// NotFound 未匹配路由 (404)，每次返回新值
func NotFound() *AppError {
	return New(CodeNotFound, "Not found")
}

// MethodNotAllowed 路由存在但方法不匹配 (405)
func MethodNotAllowed() *AppError {
	return New(CodeMethodInvalid, "Method not allowed")
}

// Internal 未预期的内部错误 (500)
func Internal() *AppError {
	return New(CodeInternalError, "Internal server error")
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, err.Error())
}

// KindOf 返回错误分类，非 AppError 视为上游失败
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return AsAppError(err).Kind
}

// IsKind 检查错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
