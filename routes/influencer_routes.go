package routes

import (
	"referral_admin/handlers"

	"github.com/gofiber/fiber/v2"
)

// SetupInfluencerRoutes 设置推广达人相关的路由
func SetupInfluencerRoutes(app *fiber.App) {
	// 推广达人管理路由组
	influencerGroup := app.Group("/api/influencers")

	// 推广达人基本管理
	influencerGroup.Get("/", handlers.GetAllInfluencers)                // 获取所有推广达人
	influencerGroup.Post("/", handlers.CreateInfluencer)                // 创建推广达人
	influencerGroup.Get("/:referralCode", handlers.GetInfluencerByCode) // 按推广码获取详情（含营收和佣金汇总）
	influencerGroup.Delete("/:id", handlers.DeleteInfluencer)           // 删除推广达人
}
