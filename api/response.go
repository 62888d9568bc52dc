package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// BadRequestWithFields 带字段级错误的 400 响应
// 校验失败不落库，字段错误由前端渲染到对应表单项
func BadRequestWithFields(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: message,
		Data:    gin.H{"fields": fields},
	})
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// FieldErrors 将绑定校验错误转换为 字段->提示 的映射，非校验错误返回 nil
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldErrorMessage(fe)
	}
	return fields
}

// fieldErrorMessage 按校验标签生成中文提示
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填项"
	case "min":
		return "长度或数值不足"
	case "max":
		return "超出长度限制"
	case "email":
		return "邮箱格式错误"
	case "oneof":
		return "取值不在允许范围内"
	case "len":
		return "长度不正确"
	default:
		return "格式错误"
	}
}

// bindError 统一处理绑定失败：有字段错误时逐字段返回，否则返回安全消息
func bindError(c *gin.Context, err error) {
	if fields := FieldErrors(err); len(fields) > 0 {
		BadRequestWithFields(c, "参数错误", fields)
		return
	}
	BadRequest(c, SafeErrorMessage(err, "参数错误"))
}
