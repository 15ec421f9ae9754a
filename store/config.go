package store

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTimeout 单次远程调用的默认超时时间
const DefaultTimeout = 10 * time.Second

// Config 存储网关配置
// 后端选择完全由该配置对象决定，构造网关后不再读取任何环境变量
type Config struct {
	ScriptURL         string        // Apps Script端点地址，空表示未配置远程端点
	FeedURL           string        // 订单表格的公开数据源地址
	InfluencerFeedURL string        // 推广达人表格的公开数据源地址
	FilePath          string        // 本地JSON文件路径，空表示禁用文件后端
	AllowFallback     bool          // 远程失败时是否允许回退到本地文件
	OrderSiteBaseURL  string        // 下单站点基础地址，用于构造推广链接
	Timeout           time.Duration // 单次远程调用超时时间
}

// LoadConfig 从环境变量加载存储网关配置
// 生产环境（APP_ENV=production）没有可用的本地文件系统，
// 因此禁用文件后端和回退，所有操作只走远程端点
func LoadConfig() Config {
	// 加载.env文件中的环境变量
	// 文件不存在时直接使用系统环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到.env文件，使用系统环境变量")
	}

	production := os.Getenv("APP_ENV") == "production"

	cfg := Config{
		ScriptURL:         os.Getenv("APPS_SCRIPT_URL"),
		FeedURL:           os.Getenv("ORDERS_FEED_URL"),
		InfluencerFeedURL: os.Getenv("INFLUENCERS_FEED_URL"),
		OrderSiteBaseURL:  os.Getenv("ORDER_SITE_URL"),
		AllowFallback:     !production,
		Timeout:           DefaultTimeout,
	}

	// 数据源地址可以直接配置，也可以通过表格ID构造
	if cfg.FeedURL == "" {
		if sheetID := os.Getenv("SHEET_ID"); sheetID != "" {
			cfg.FeedURL = FeedURLForSheet(sheetID)
		}
	}
	if cfg.InfluencerFeedURL == "" {
		if sheetID := os.Getenv("INFLUENCER_SHEET_ID"); sheetID != "" {
			cfg.InfluencerFeedURL = FeedURLForSheet(sheetID)
		}
	}

	// 本地文件后端只在非生产环境启用
	if !production {
		cfg.FilePath = os.Getenv("INFLUENCERS_FILE")
		if cfg.FilePath == "" {
			cfg.FilePath = filepath.Join("data", "influencers.json")
		}
	}

	return cfg
}

// FeedURLForSheet 根据表格ID构造公开数据源地址
func FeedURLForSheet(sheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + sheetID +
		"/gviz/tq?tqx=out:json&tq=" + url.QueryEscape("SELECT *")
}
