package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"referral_admin/models"
	"referral_admin/utils"
)

// Store 存储网关
// 在远程端点和本地文件之间仲裁，对外提供统一的读写接口
// 后端选择在每次调用时评估，不做缓存
type Store struct {
	cfg    Config
	script *scriptClient // nil表示未配置远程端点
	file   *fileStore
	client *http.Client // 用于拉取公开数据源
}

// 全局存储网关实例
// 这个变量在整个应用程序中被共享使用
// 通过 GetStore() 函数安全地访问
var defaultStore *Store

// GetStore 返回存储网关实例
// 这个函数是获取存储网关的推荐方式
func GetStore() *Store {
	return defaultStore
}

// SetStore 设置存储网关实例
// 主要用于测试场景，允许注入指向测试后端的网关
func SetStore(s *Store) {
	defaultStore = s
}

// Init 初始化存储网关模块
// 从环境变量加载配置并创建全局网关实例
func Init() {
	defaultStore = New(LoadConfig())
	log.Println("存储网关初始化完成")
}

// New 根据配置创建存储网关
func New(cfg Config) *Store {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &Store{
		cfg:    cfg,
		file:   &fileStore{path: cfg.FilePath},
		client: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.ScriptURL != "" {
		s.script = newScriptClient(cfg.ScriptURL, cfg.Timeout)
	}
	return s
}

// Config 返回网关的配置副本
func (s *Store) Config() Config {
	return s.cfg
}

// canFallback 判断远程失败后是否允许回退到本地文件
func (s *Store) canFallback() bool {
	return s.cfg.AllowFallback && s.file.configured()
}

// ListInfluencers 获取全部推广达人
// 优先使用远程端点；未配置脚本端点时尝试公开数据源；
// 远程失败且允许回退时改用本地文件，否则直接返回错误
func (s *Store) ListInfluencers(ctx context.Context) ([]models.Influencer, error) {
	if s.script != nil {
		influencers, err := s.script.listInfluencers(ctx)
		if err == nil {
			return influencers, nil
		}
		if !s.canFallback() {
			return nil, err
		}
		log.Printf("远程获取推广达人失败，回退到本地文件: %v", err)
		return s.file.load()
	}

	if s.cfg.InfluencerFeedURL != "" {
		influencers, err := s.listInfluencersFromFeed(ctx)
		if err == nil {
			return influencers, nil
		}
		if !s.canFallback() {
			return nil, err
		}
		log.Printf("公开数据源获取推广达人失败，回退到本地文件: %v", err)
		return s.file.load()
	}

	if !s.file.configured() {
		return nil, fmt.Errorf("%w: 未配置推广达人存储后端", ErrBackendUnavailable)
	}
	return s.file.load()
}

// listInfluencersFromFeed 从公开数据源读取推广达人
func (s *Store) listInfluencersFromFeed(ctx context.Context) ([]models.Influencer, error) {
	text, err := s.fetchFeed(ctx, s.cfg.InfluencerFeedURL)
	if err != nil {
		return nil, err
	}
	rows, err := ParseFeed(text)
	if err != nil {
		return nil, err
	}
	return MapInfluencers(rows), nil
}

// CreateInfluencer 创建推广达人
// 流程：参数校验 → 推广码查重 → 服务端生成标识和创建时间 → 写入后端
// 校验不通过的请求不会触达任何后端
func (s *Store) CreateInfluencer(ctx context.Context, input models.Influencer) (models.Influencer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Influencer{}, fmt.Errorf("%w: 姓名不能为空", ErrValidation)
	}

	code := models.CanonicalReferralCode(input.ReferralCode)
	if !models.ValidReferralCode(code) {
		return models.Influencer{}, fmt.Errorf("%w: 推广码必须是3-20位字母或数字", ErrValidation)
	}

	if !models.ValidCommission(input.CommissionPercentage) {
		return models.Influencer{}, fmt.Errorf("%w: 佣金比例必须在0到100之间", ErrValidation)
	}

	// 基于当前完整列表做不区分大小写的查重
	// 查重失败时不能盲目写入，直接把读取错误返回给调用方
	existing, err := s.ListInfluencers(ctx)
	if err != nil {
		return models.Influencer{}, err
	}
	for _, influencer := range existing {
		if models.CanonicalReferralCode(influencer.ReferralCode) == code {
			return models.Influencer{}, ErrDuplicateReferralCode
		}
	}

	// 标识和创建时间只由服务端生成，请求中携带的值一律忽略
	influencer := models.Influencer{
		ID:                   utils.GenerateInfluencerID(),
		Name:                 name,
		ReferralCode:         code,
		CommissionPercentage: input.CommissionPercentage,
		CreatedAt:            time.Now().UTC().Format(time.RFC3339),
	}

	if s.script != nil {
		err := s.script.addInfluencer(ctx, influencer)
		if err == nil {
			return influencer, nil
		}
		if !s.canFallback() {
			return models.Influencer{}, err
		}
		log.Printf("远程写入推广达人失败，回退到本地文件: %v", err)
		if err := s.file.append(influencer); err != nil {
			return models.Influencer{}, err
		}
		return influencer, nil
	}

	if !s.file.configured() {
		return models.Influencer{}, fmt.Errorf("%w: 未配置推广达人存储后端", ErrBackendUnavailable)
	}
	if err := s.file.append(influencer); err != nil {
		return models.Influencer{}, err
	}
	return influencer, nil
}

// DeleteInfluencer 删除推广达人
// 远程端点报告不存在时，允许回退则改走本地文件，否则直接返回错误
// 文件后端删除不存在的记录是幂等的空操作
func (s *Store) DeleteInfluencer(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: 缺少推广达人ID", ErrValidation)
	}

	if s.script != nil {
		err := s.script.deleteInfluencer(ctx, id)
		if err == nil {
			return nil
		}
		if !s.canFallback() {
			return err
		}
		log.Printf("远程删除推广达人失败，回退到本地文件: %v", err)
		return s.file.delete(id)
	}

	if !s.file.configured() {
		return fmt.Errorf("%w: 未配置推广达人存储后端", ErrBackendUnavailable)
	}
	return s.file.delete(id)
}

// ListOrders 获取全部订单
// 订单始终来自公开数据源的解析结果，没有本地文件后端
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	if s.cfg.FeedURL == "" {
		return nil, fmt.Errorf("%w: 未配置订单数据源", ErrBackendUnavailable)
	}
	text, err := s.fetchFeed(ctx, s.cfg.FeedURL)
	if err != nil {
		return nil, err
	}
	rows, err := ParseFeed(text)
	if err != nil {
		return nil, err
	}
	return MapOrders(rows), nil
}

// CreateOrder 创建订单
// 订单必须落到共享表格里，只走远程端点，远程失败不回退本地文件
func (s *Store) CreateOrder(ctx context.Context, order models.Order) error {
	if order.Price < 0 {
		return fmt.Errorf("%w: 订单金额不能为负数", ErrValidation)
	}
	if s.script == nil {
		return fmt.Errorf("%w: 未配置Apps Script端点", ErrBackendUnavailable)
	}
	order.ReferralCode = models.CanonicalReferralCode(order.ReferralCode)
	order.Status = models.NormalizeOrderStatus(order.Status)
	return s.script.createOrder(ctx, order)
}

// UpdateOrderStatus 更新订单状态
// 状态流转只走远程端点，允许pending与completed/rejected之间双向切换
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if orderID == "" {
		return fmt.Errorf("%w: 缺少订单ID", ErrValidation)
	}
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: 无效的订单状态: %s", ErrValidation, status)
	}
	if s.script == nil {
		return fmt.Errorf("%w: 未配置Apps Script端点", ErrBackendUnavailable)
	}
	return s.script.updateOrderStatus(ctx, orderID, status)
}

// fetchFeed 拉取公开数据源的原始文本
func (s *Store) fetchFeed(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: 无效的数据源地址: %v", ErrBackendUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: 数据源返回状态码%d", ErrUpstream, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: 读取数据源响应失败: %v", ErrUpstream, err)
	}
	return string(data), nil
}
