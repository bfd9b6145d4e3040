package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperr "carousel_studio_v1/pkg/errors"
)

// ==================== 统一响应 ====================

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondError 按错误类型映射状态码
// 上游错误只返回通用提示，细节写日志
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error."

	switch {
	case apperr.IsInvalidInput(err):
		status, message = http.StatusBadRequest, apperr.GetMessage(err)
	case apperr.IsPrecondition(err):
		status, message = http.StatusUnprocessableEntity, apperr.GetMessage(err)
	case apperr.IsBusy(err):
		status, message = http.StatusConflict, apperr.GetMessage(err)
	case apperr.IsNotFound(err):
		status, message = http.StatusNotFound, "Session not found or expired."
	case apperr.IsStorageDisabled(err):
		status, message = http.StatusServiceUnavailable, apperr.GetMessage(err)
	case apperr.IsUpstream(err):
		status, message = http.StatusBadGateway, apperr.GetMessage(err)
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.Any("error", err),
		)
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"data":    gin.H{"error": errorCode(err)},
	})
}

func errorCode(err error) string {
	if code := apperr.GetCode(err); code != "" {
		return code
	}
	if apperr.IsNotFound(err) {
		return apperr.CodeNotFound
	}
	return "internal"
}

// respondBindError 参数校验失败，400
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": bindingMessage(err),
		"data":    gin.H{"error": apperr.CodeInvalidInput},
	})
}

// bindingMessage 将校验错误转为面向用户的提示
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body."
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "niche":
			msgs = append(msgs, "Please select a valid niche.")
		case "image_style":
			msgs = append(msgs, "Please select a valid image style.")
		case "required":
			msgs = append(msgs, fieldName(fe)+" is required.")
		case "max":
			msgs = append(msgs, fieldName(fe)+" is too long.")
		default:
			msgs = append(msgs, fieldName(fe)+" is invalid.")
		}
	}
	return strings.Join(msgs, " ")
}

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Niche":
		return "Niche"
	case "ImageStyle":
		return "Image style"
	case "UserIdeas":
		return "Ideas"
	default:
		// ContentOptions[0] 等
		return "Content"
	}
}
