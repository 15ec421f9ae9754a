package models

import "strings"

// 订单状态常量
// 状态是一个封闭集合，来源数据中出现其他值时一律归为pending
const (
	OrderStatusPending   = "pending"   // 待处理
	OrderStatusCompleted = "completed" // 已完成，计入营收
	OrderStatusRejected  = "rejected"  // 已拒绝
)

// Order 客户订单模型
// 订单来自外部表格，id由外部存储生成，没有id的行视为无效数据
// 订单通过referralCode与推广达人松散关联，不做引用完整性约束
type Order struct {
	ID           string  `json:"id"`           // 订单标识，来自外部存储，空表示无效行
	Name         string  `json:"name"`         // 客户姓名，缺失时为空字符串
	Phone        string  `json:"phone"`        // 客户电话，缺失时为空字符串
	Address      string  `json:"address"`      // 收货地址，缺失时为空字符串
	Price        float64 `json:"price"`        // 订单金额，解析失败时为0
	ReferralCode string  `json:"referralCode"` // 推广码，允许没有对应的推广达人
	Status       string  `json:"status"`       // 订单状态，取值见上方常量
}

// OrderQuery 订单查询参数
type OrderQuery struct {
	ReferralCode string `json:"referralCode" query:"referralCode"` // 推广码，不区分大小写的子串匹配
	Status       string `json:"status" query:"status"`             // 订单状态，精确匹配
}

// ValidOrderStatus 校验订单状态是否属于封闭集合
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusRejected:
		return true
	}
	return false
}

// NormalizeOrderStatus 归一化订单状态
// 来源数据中缺失或无法识别的状态一律归为pending
func NormalizeOrderStatus(status string) string {
	if ValidOrderStatus(status) {
		return status
	}
	return OrderStatusPending
}

// FilterOrdersByCode 按推广码筛选订单
// 不区分大小写的子串匹配，空的筛选条件返回全部订单
func FilterOrdersByCode(orders []Order, code string) []Order {
	if code == "" {
		return orders
	}
	lower := strings.ToLower(code)
	filtered := make([]Order, 0, len(orders))
	for _, order := range orders {
		if strings.Contains(strings.ToLower(order.ReferralCode), lower) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// FilterOrdersByStatus 按状态筛选订单
// 空的筛选条件返回全部订单
func FilterOrdersByStatus(orders []Order, status string) []Order {
	if status == "" {
		return orders
	}
	filtered := make([]Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// Revenue 计算订单营收
// 只统计已完成订单的金额，pending和rejected订单不计入
func Revenue(orders []Order) float64 {
	var total float64
	for _, order := range orders {
		if order.Status == OrderStatusCompleted {
			total += order.Price
		}
	}
	return total
}

// Commission 计算佣金总额
// 佣金 = 营收 × 佣金比例 / 100
func Commission(orders []Order, pct float64) float64 {
	return Revenue(orders) * pct / 100
}

// OrderCommission 计算单笔订单的佣金
func OrderCommission(order Order, pct float64) float64 {
	return order.Price * pct / 100
}
