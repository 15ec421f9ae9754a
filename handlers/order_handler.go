package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"referral_admin/models"
	"referral_admin/store"
)

// GetAllOrders 获取所有订单
// 支持按推广码（子串匹配）和状态筛选
// 数据源失败不能让页面崩溃，按零条记录加错误信息返回
func GetAllOrders(c *fiber.Ctx) error {
	var query models.OrderQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "查询参数解析失败: " + err.Error(),
		})
	}

	orders, err := store.GetStore().ListOrders(c.UserContext())
	if err != nil {
		log.Printf("获取订单列表失败: %v", err)
		return c.JSON(fiber.Map{
			"total": 0,
			"data":  []models.Order{},
			"error": err.Error(),
		})
	}

	// 应用筛选条件
	orders = models.FilterOrdersByCode(orders, query.ReferralCode)
	orders = models.FilterOrdersByStatus(orders, query.Status)

	return c.JSON(fiber.Map{
		"total": len(orders),
		"data":  orders,
	})
}

// CreateOrder 创建新订单
// 订单是面向客户的数据，必须写入共享表格，创建只走远程端点
func CreateOrder(c *fiber.Ctx) error {
	var requestData struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		Price        any    `json:"price"`
		ReferralCode string `json:"referralCode"`
		Status       string `json:"status"`
	}

	if err := c.BodyParser(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	// 金额允许以数字或字符串形式提交，缺失时为0（结算阶段再补）
	price := 0.0
	if requestData.Price != nil {
		parsed, ok := parseNumber(requestData.Price)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "订单金额必须是数字",
			})
		}
		price = parsed
	}

	order := models.Order{
		Name:         requestData.Name,
		Phone:        requestData.Phone,
		Address:      requestData.Address,
		Price:        price,
		ReferralCode: requestData.ReferralCode,
		Status:       requestData.Status,
	}

	if err := store.GetStore().CreateOrder(c.UserContext(), order); err != nil {
		log.Printf("创建订单失败: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "订单创建成功",
	})
}

// UpdateOrderStatus 更新订单状态
// 允许pending与completed/rejected之间双向切换，状态流转只走远程端点
func UpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "缺少订单ID",
		})
	}

	var requestData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	if err := store.GetStore().UpdateOrderStatus(c.UserContext(), orderID, requestData.Status); err != nil {
		log.Printf("更新订单状态失败: %v", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "订单状态更新成功",
	})
}
