package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizeOrderStatus 状态是封闭集合，无法识别的值归pending
func TestNormalizeOrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusPending, NormalizeOrderStatus("pending"))
	assert.Equal(t, OrderStatusCompleted, NormalizeOrderStatus("completed"))
	assert.Equal(t, OrderStatusRejected, NormalizeOrderStatus("rejected"))

	assert.Equal(t, OrderStatusPending, NormalizeOrderStatus(""))
	assert.Equal(t, OrderStatusPending, NormalizeOrderStatus("shipped"))
	assert.Equal(t, OrderStatusPending, NormalizeOrderStatus("COMPLETED"))
}

// TestFilterOrdersByCode 推广码筛选是不区分大小写的子串匹配
func TestFilterOrdersByCode(t *testing.T) {
	orders := []Order{
		{ID: "1", ReferralCode: "ABC123"},
		{ID: "2", ReferralCode: "XYZ789"},
		{ID: "3", ReferralCode: "abc456"},
	}

	filtered := FilterOrdersByCode(orders, "abc")
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "3", filtered[1].ID)

	// 空的筛选条件返回全部订单
	assert.Len(t, FilterOrdersByCode(orders, ""), 3)

	// 没有匹配时返回空集
	assert.Empty(t, FilterOrdersByCode(orders, "不存在"))
}

// TestFilterOrdersByStatus 状态筛选是精确匹配
func TestFilterOrdersByStatus(t *testing.T) {
	orders := []Order{
		{ID: "1", Status: OrderStatusCompleted},
		{ID: "2", Status: OrderStatusPending},
		{ID: "3", Status: OrderStatusCompleted},
	}

	filtered := FilterOrdersByStatus(orders, OrderStatusCompleted)
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "3", filtered[1].ID)

	assert.Len(t, FilterOrdersByStatus(orders, ""), 3)
}

// TestRevenueAndCommission 营收只统计已完成订单，佣金按比例折算
func TestRevenueAndCommission(t *testing.T) {
	orders := []Order{
		{ID: "1", Price: 200, ReferralCode: "X1", Status: OrderStatusCompleted},
		{ID: "2", Price: 50, ReferralCode: "X1", Status: OrderStatusPending},
	}

	// 佣金比例10%：营收200，佣金20，pending订单不计入
	assert.Equal(t, 200.0, Revenue(orders))
	assert.Equal(t, 20.0, Commission(orders, 10))
}

// TestRevenueEmptyAndRejected 空集和被拒绝订单的边界
func TestRevenueEmptyAndRejected(t *testing.T) {
	assert.Equal(t, 0.0, Revenue(nil))
	assert.Equal(t, 0.0, Commission(nil, 50))

	orders := []Order{
		{ID: "1", Price: 300, Status: OrderStatusRejected},
	}
	assert.Equal(t, 0.0, Revenue(orders))
}

// TestOrderCommission 单笔订单的佣金折算
func TestOrderCommission(t *testing.T) {
	order := Order{ID: "1", Price: 80, Status: OrderStatusCompleted}
	assert.Equal(t, 8.0, OrderCommission(order, 10))
	assert.Equal(t, 0.0, OrderCommission(order, 0))
}
