package mockBackend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    int    `json:"code"`
}

func APIResponse(c *gin.Context, code int, success bool, message string, data any) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
		Code:    code,
	})
}

func ok(c *gin.Context, data any) {
	APIResponse(c, http.StatusOK, true, "操作成功", data)
}

func okMessage(c *gin.Context, message string, data any) {
	APIResponse(c, http.StatusOK, true, message, data)
}

// reject 业务规则不允许,http 200 + success=false
func reject(c *gin.Context, message string) {
	APIResponse(c, http.StatusOK, false, message, nil)
}

func badRequest(c *gin.Context, message string) {
	APIResponse(c, http.StatusBadRequest, false, message, nil)
}

func notFound(c *gin.Context, message string) {
	APIResponse(c, http.StatusNotFound, false, message, nil)
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	APIResponse(c, http.StatusInternalServerError, false, "服务器内部错误", nil)
}

// storeError 区分不存在和其他错误
func storeError(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, ErrNotFound) {
		notFound(c, notFoundMessage)
		return
	}
	serverError(c, err)
}

// pathId 解析路径中的id
func pathId(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "参数["+name+"]格式错误")
		return 0, false
	}
	return id, true
}
