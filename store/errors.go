// Package store 提供存储网关功能
// 该包负责处理推广达人和订单数据的所有持久化操作，包括：
// - 公开表格数据源的解析
// - Apps Script远程端点的读写
// - 本地JSON文件后端
// - 远程失败时的一次性回退策略
package store

import (
	"errors"
	"fmt"
)

// 存储层错误分类
// 处理器根据这些哨兵错误决定HTTP状态码
var (
	// ErrValidation 输入不满足字段约束，校验失败的请求不会触达任何后端
	ErrValidation = errors.New("参数校验失败")
	// ErrDuplicateReferralCode 推广码已被占用（不区分大小写），在写入前检查
	ErrDuplicateReferralCode = errors.New("推广码已存在")
	// ErrBackendUnavailable 配置的后端不可达或缺少必要配置
	ErrBackendUnavailable = errors.New("存储后端不可用")
	// ErrNotFound 删除或更新的目标不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrUpstream 远程端点返回非成功状态或显式错误
	ErrUpstream = errors.New("远程端点返回错误")
	// ErrTimeout 远程调用超时
	ErrTimeout = errors.New("远程调用超时")
)

// feedExcerptLimit 诊断摘要的最大长度
const feedExcerptLimit = 500

// MalformedFeedError 数据源文本在剥离包装后无法解析为结构化数据
// Excerpt携带出错文本的有界摘要，便于排查表格权限或格式问题
type MalformedFeedError struct {
	Excerpt string // 出错文本的前500个字符
	Err     error  // 底层解析错误
}

// Error 实现error接口
func (e *MalformedFeedError) Error() string {
	return fmt.Sprintf("数据源解析失败: %v (摘要: %s)", e.Err, e.Excerpt)
}

// Unwrap 返回底层解析错误
func (e *MalformedFeedError) Unwrap() error {
	return e.Err
}

// newMalformedFeedError 构造携带有界摘要的解析错误
func newMalformedFeedError(text string, err error) *MalformedFeedError {
	excerpt := text
	if len(excerpt) > feedExcerptLimit {
		excerpt = excerpt[:feedExcerptLimit]
	}
	return &MalformedFeedError{Excerpt: excerpt, Err: err}
}
