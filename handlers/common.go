package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"referral_admin/store"
)

// statusForError 将存储层错误映射为HTTP状态码
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrDuplicateReferralCode):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrTimeout):
		return fiber.StatusGatewayTimeout
	default:
		// ErrBackendUnavailable、ErrUpstream和未分类错误都按服务器错误处理
		return fiber.StatusInternalServerError
	}
}

// respondError 按统一的错误响应格式返回
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// parseNumber 将请求中的数值字段强制转换为浮点数
// 前端表单可能把数字作为字符串提交，两种形式都接受
func parseNumber(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
