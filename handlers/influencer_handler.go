package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"referral_admin/models"
	"referral_admin/store"
	"referral_admin/utils"
)

// GetAllInfluencers 获取所有推广达人
// 列表读取失败不能让页面崩溃，按零条记录加错误信息返回
func GetAllInfluencers(c *fiber.Ctx) error {
	influencers, err := store.GetStore().ListInfluencers(c.UserContext())
	if err != nil {
		log.Printf("获取推广达人列表失败: %v", err)
		return c.JSON(fiber.Map{
			"total": 0,
			"data":  []models.Influencer{},
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"total": len(influencers),
		"data":  influencers,
	})
}

// CreateInfluencer 创建新推广达人
// 接收姓名、推广码和佣金比例，校验和查重都由存储网关完成
func CreateInfluencer(c *fiber.Ctx) error {
	var requestData struct {
		Name                 string `json:"name"`
		ReferralCode         string `json:"referralCode"`
		CommissionPercentage any    `json:"commissionPercentage"`
	}

	if err := c.BodyParser(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "参数解析失败: " + err.Error(),
		})
	}

	// 佣金比例允许以数字或字符串形式提交
	commission, ok := parseNumber(requestData.CommissionPercentage)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "佣金比例必须是数字",
		})
	}

	influencer, err := store.GetStore().CreateInfluencer(c.UserContext(), models.Influencer{
		Name:                 requestData.Name,
		ReferralCode:         requestData.ReferralCode,
		CommissionPercentage: commission,
	})
	if err != nil {
		log.Printf("创建推广达人失败: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "推广达人创建成功",
		"data":    influencer,
	})
}

// GetInfluencerByCode 按推广码获取推广达人详情
// 返回推广达人本身、名下订单、营收佣金汇总和推广链接
// 订单数据源失败时详情仍然返回，订单部分按空集处理并附带错误信息
func GetInfluencerByCode(c *fiber.Ctx) error {
	code := models.CanonicalReferralCode(c.Params("referralCode"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "缺少推广码",
		})
	}

	gateway := store.GetStore()
	influencers, err := gateway.ListInfluencers(c.UserContext())
	if err != nil {
		log.Printf("获取推广达人列表失败: %v", err)
		return respondError(c, err)
	}

	var influencer *models.Influencer
	for i := range influencers {
		if models.CanonicalReferralCode(influencers[i].ReferralCode) == code {
			influencer = &influencers[i]
			break
		}
	}
	if influencer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "推广达人不存在",
		})
	}

	// 订单按推广码精确归属，这里不用子串匹配
	var orderError string
	orders := []models.Order{}
	allOrders, err := gateway.ListOrders(c.UserContext())
	if err != nil {
		log.Printf("获取订单列表失败: %v", err)
		orderError = err.Error()
	} else {
		for _, order := range allOrders {
			if strings.EqualFold(order.ReferralCode, code) {
				orders = append(orders, order)
			}
		}
	}

	revenue := models.Revenue(orders)
	response := fiber.Map{
		"influencer":   influencer,
		"orders":       orders,
		"revenue":      revenue,
		"commission":   revenue * influencer.CommissionPercentage / 100,
		"referralLink": utils.ReferralLink(gateway.Config().OrderSiteBaseURL, influencer.ReferralCode),
	}
	if orderError != "" {
		response["error"] = orderError
	}

	return c.JSON(fiber.Map{
		"data": response,
	})
}

// DeleteInfluencer 删除推广达人
func DeleteInfluencer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "缺少推广达人ID",
		})
	}

	if err := store.GetStore().DeleteInfluencer(c.UserContext(), id); err != nil {
		log.Printf("删除推广达人失败: %v", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "推广达人删除成功",
	})
}
