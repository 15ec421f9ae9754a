package store

import (
	"time"

	"referral_admin/models"
)

// 数据行到领域记录的映射
// 两个映射都是纯函数，列位置固定，所有字段都强制转换到声明的类型

// MapOrder 将数据行映射为订单记录
// 列位置：0→id, 1→name, 2→phone, 3→address, 4→price, 5→referralCode, 6→status
// 金额解析失败归0，无法识别的状态归pending
func MapOrder(row Row) models.Order {
	return models.Order{
		ID:           row.String(0),
		Name:         row.String(1),
		Phone:        row.String(2),
		Address:      row.String(3),
		Price:        row.Float(4),
		ReferralCode: row.String(5),
		Status:       models.NormalizeOrderStatus(row.String(6)),
	}
}

// MapOrders 批量映射订单并过滤无效行
// 映射后id为空的行被丢弃，这是在解析器丢弃规则之外的二次防护
func MapOrders(rows []Row) []models.Order {
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		order := MapOrder(row)
		if order.ID == "" {
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

// MapInfluencer 将数据行映射为推广达人记录
// 列位置：0→id, 1→name, 2→referralCode, 3→commissionPercentage, 4→createdAt
// 佣金比例解析失败归0，创建时间缺失时取当前时间
func MapInfluencer(row Row) models.Influencer {
	createdAt := row.String(4)
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	return models.Influencer{
		ID:                   row.String(0),
		Name:                 row.String(1),
		ReferralCode:         row.String(2),
		CommissionPercentage: row.Float(3),
		CreatedAt:            createdAt,
	}
}

// MapInfluencers 批量映射推广达人并过滤无效行
func MapInfluencers(rows []Row) []models.Influencer {
	influencers := make([]models.Influencer, 0, len(rows))
	for _, row := range rows {
		influencer := MapInfluencer(row)
		if influencer.ID == "" {
			continue
		}
		influencers = append(influencers, influencer)
	}
	return influencers
}
