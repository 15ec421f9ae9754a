package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeBaseURL 基础地址的规范化规则
func TestNormalizeBaseURL(t *testing.T) {
	// 未配置时回退到生产环境的固定地址
	assert.Equal(t, ProductionOrderURL, NormalizeBaseURL(""))
	assert.Equal(t, ProductionOrderURL, NormalizeBaseURL("   "))

	// 去除末尾斜杠
	assert.Equal(t, "https://example.com", NormalizeBaseURL("https://example.com/"))

	// 缺少协议前缀时补上https://
	assert.Equal(t, "https://example.com", NormalizeBaseURL("example.com"))
	assert.Equal(t, "http://example.com", NormalizeBaseURL("http://example.com"))
}

// TestReferralLink 推广链接的构造格式
func TestReferralLink(t *testing.T) {
	assert.Equal(t, ProductionOrderURL+"/?ref=AB1", ReferralLink("", "AB1"))
	assert.Equal(t, "https://example.com/?ref=CODE123", ReferralLink("example.com", "CODE123"))

	// 推广码为空时不构造链接
	assert.Equal(t, "", ReferralLink("example.com", ""))
}

// TestReferralLinkDeterministic 相同输入产出相同链接
func TestReferralLinkDeterministic(t *testing.T) {
	first := ReferralLink("example.com", "ABC123")
	second := ReferralLink("example.com", "ABC123")
	assert.Equal(t, first, second)
}
