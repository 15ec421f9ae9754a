package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"referral_admin/models"
)

// scriptClient Apps Script远程端点客户端
// 读操作通过查询参数action发起GET请求
// 写操作通过携带action鉴别字段的JSON体发起POST请求（订单创建不带鉴别字段）
// 每次调用都是单次往返，不做批量也不做重试
type scriptClient struct {
	baseURL string
	client  *http.Client
}

// newScriptClient 创建远程端点客户端
// 所有请求受timeout限制
func newScriptClient(baseURL string, timeout time.Duration) *scriptClient {
	return &scriptClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// listInfluencers 获取全部推广达人
// GET {script}?action=getInfluencers → {"influencers":[...]}
func (c *scriptClient) listInfluencers(ctx context.Context) ([]models.Influencer, error) {
	var result struct {
		Influencers []models.Influencer `json:"influencers"`
	}
	requestURL := c.baseURL + "?action=getInfluencers"
	if err := c.doJSON(ctx, http.MethodGet, requestURL, nil, &result); err != nil {
		return nil, err
	}
	if result.Influencers == nil {
		return nil, fmt.Errorf("%w: 响应中缺少influencers字段", ErrUpstream)
	}
	return result.Influencers, nil
}

// addInfluencer 写入一条推广达人记录
// POST {script} {"action":"addInfluencer", ...记录字段}
func (c *scriptClient) addInfluencer(ctx context.Context, influencer models.Influencer) error {
	payload := struct {
		Action string `json:"action"`
		models.Influencer
	}{Action: "addInfluencer", Influencer: influencer}
	return c.doJSON(ctx, http.MethodPost, c.baseURL, payload, nil)
}

// deleteInfluencer 删除一条推广达人记录
// POST {script} {"action":"deleteInfluencer","id":id}
func (c *scriptClient) deleteInfluencer(ctx context.Context, id string) error {
	payload := map[string]string{
		"action": "deleteInfluencer",
		"id":     id,
	}
	return c.doJSON(ctx, http.MethodPost, c.baseURL, payload, nil)
}

// createOrder 写入一条订单记录
// 订单创建是隐式动作，请求体就是订单字段本身，不携带action鉴别字段
func (c *scriptClient) createOrder(ctx context.Context, order models.Order) error {
	return c.doJSON(ctx, http.MethodPost, c.baseURL, order, nil)
}

// updateOrderStatus 更新订单状态
// GET {script}?action=updateStatus&orderId=..&status=..
func (c *scriptClient) updateOrderStatus(ctx context.Context, orderID, status string) error {
	query := url.Values{}
	query.Set("action", "updateStatus")
	query.Set("orderId", orderID)
	query.Set("status", status)
	requestURL := c.baseURL + "?" + query.Encode()
	return c.doJSON(ctx, http.MethodGet, requestURL, nil, nil)
}

// doJSON 执行一次远程调用并分类错误
// 非2xx状态、响应体中的error字段都视为远程错误
// 远程明确报告不存在时返回ErrNotFound，由网关决定是否回退
func (c *scriptClient) doJSON(ctx context.Context, method, requestURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: 请求序列化失败: %v", ErrBackendUnavailable, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("%w: 无效的端点地址: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: 读取响应失败: %v", ErrUpstream, err)
	}

	// 响应体可能携带error字段，优先于状态码之外的内容解析
	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &envelope)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: 远程端点返回404", ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if envelope.Error != "" {
			return fmt.Errorf("%w: 状态码%d: %s", ErrUpstream, resp.StatusCode, envelope.Error)
		}
		return fmt.Errorf("%w: 状态码%d", ErrUpstream, resp.StatusCode)
	}
	if envelope.Error != "" {
		if strings.Contains(strings.ToLower(envelope.Error), "not found") {
			return fmt.Errorf("%w: %s", ErrNotFound, envelope.Error)
		}
		return fmt.Errorf("%w: %s", ErrUpstream, envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: 响应解析失败: %v", ErrUpstream, err)
		}
	}
	return nil
}

// classifyTransportError 将传输层错误归类为超时或后端不可用
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
