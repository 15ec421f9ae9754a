package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// ProductionOrderURL 生产环境下单站点地址
// 未配置下单站点地址时使用该固定地址构造推广链接
const ProductionOrderURL = "https://growessence.vercel.app"

// schemePattern 匹配带协议前缀的URL
var schemePattern = regexp.MustCompile(`^https?://`)

// NormalizeBaseURL 规范化下单站点基础地址
// 去除末尾的斜杠，缺少协议前缀时补上https://
// 传入空字符串时返回生产环境的固定地址
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ProductionOrderURL
	}
	base = strings.TrimRight(base, "/")
	if !schemePattern.MatchString(base) {
		base = "https://" + base
	}
	return base
}

// ReferralLink 构造推广链接
// 将推广码作为查询参数附加到下单站点地址上，推广码经过百分号编码
// 格式：{base}/?ref={code}
func ReferralLink(baseURL, referralCode string) string {
	if referralCode == "" {
		return ""
	}
	return NormalizeBaseURL(baseURL) + "/?ref=" + url.QueryEscape(referralCode)
}
