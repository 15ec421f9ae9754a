package models

import (
	"regexp"
	"strings"
)

// Influencer 推广达人模型
// 用于存储推广达人的基本信息，包括姓名、推广码、佣金比例等
// 记录由后端存储（远程表格或本地文件）持有，创建后不可修改，只能删除
type Influencer struct {
	ID                   string  `json:"id"`                   // 唯一标识，创建时由服务端生成
	Name                 string  `json:"name"`                 // 姓名，去除首尾空格后不能为空
	ReferralCode         string  `json:"referralCode"`         // 推广码，大写字母数字，3-20位，全局唯一（忽略大小写）
	CommissionPercentage float64 `json:"commissionPercentage"` // 佣金比例，0-100之间，例如10表示10%
	CreatedAt            string  `json:"createdAt"`            // 创建时间，RFC3339格式，创建时由服务端设置，不可修改
}

// referralCodePattern 推广码的规范格式
// 规范化（去空格+转大写）之后必须完全匹配该模式
var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// CanonicalReferralCode 规范化推广码
// 去除首尾空格并转为大写，所有推广码比较都基于规范化后的形式
func CanonicalReferralCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidReferralCode 校验推广码格式
// 要求传入的是已经规范化的推广码
func ValidReferralCode(code string) bool {
	return referralCodePattern.MatchString(code)
}

// ValidCommission 校验佣金比例
// 佣金比例必须在[0, 100]闭区间内
func ValidCommission(pct float64) bool {
	return pct >= 0 && pct <= 100
}
