package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes 设置所有API路由
// 调用各个模块的路由注册函数
func SetupRoutes(app *fiber.App) {
	// 设置推广达人路由
	SetupInfluencerRoutes(app)

	// 设置订单路由
	SetupOrderRoutes(app)
}
