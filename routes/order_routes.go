package routes

import (
	"referral_admin/handlers"

	"github.com/gofiber/fiber/v2"
)

// SetupOrderRoutes 设置订单相关的路由
func SetupOrderRoutes(app *fiber.App) {
	// 订单管理路由组
	orderGroup := app.Group("/api/orders")

	orderGroup.Get("/", handlers.GetAllOrders)                // 获取所有订单，支持推广码和状态筛选
	orderGroup.Post("/", handlers.CreateOrder)                // 创建订单（只走远程端点）
	orderGroup.Put("/:id/status", handlers.UpdateOrderStatus) // 更新订单状态（只走远程端点）
}
