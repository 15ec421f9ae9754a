package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral_admin/models"
)

// scriptRecorder 模拟Apps Script端点并记录收到的请求
type scriptRecorder struct {
	server    *httptest.Server
	getCount  atomic.Int64
	postCount atomic.Int64
	lastBody  atomic.Value // string
	lastQuery atomic.Value // string

	// 响应配置
	influencers []models.Influencer
	status      int
	errorBody   string
}

// newScriptRecorder 创建模拟端点
func newScriptRecorder(t *testing.T) *scriptRecorder {
	t.Helper()
	rec := &scriptRecorder{status: http.StatusOK, influencers: []models.Influencer{}}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			rec.getCount.Add(1)
			rec.lastQuery.Store(r.URL.RawQuery)
		} else {
			rec.postCount.Add(1)
			body, _ := io.ReadAll(r.Body)
			rec.lastBody.Store(string(body))
		}

		w.Header().Set("Content-Type", "application/json")
		if rec.status != http.StatusOK {
			w.WriteHeader(rec.status)
			w.Write([]byte(`{"error":"server error"}`))
			return
		}
		if rec.errorBody != "" {
			w.Write([]byte(`{"error":"` + rec.errorBody + `"}`))
			return
		}
		if r.Method == http.MethodGet && r.URL.Query().Get("action") == "getInfluencers" {
			json.NewEncoder(w).Encode(map[string]any{"influencers": rec.influencers})
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(rec.server.Close)
	return rec
}

// writeInfluencersFile 向临时目录写入推广达人JSON数组并返回文件路径
func writeInfluencersFile(t *testing.T, influencers []models.Influencer) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "influencers.json")
	data, err := json.Marshal(influencers)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// TestListInfluencersRemote 配置了远程端点时优先走远程
func TestListInfluencersRemote(t *testing.T) {
	rec := newScriptRecorder(t)
	rec.influencers = []models.Influencer{
		{ID: "1", Name: "甲", ReferralCode: "AAA111", CommissionPercentage: 10},
	}

	gateway := New(Config{ScriptURL: rec.server.URL})

	influencers, err := gateway.ListInfluencers(context.Background())
	require.NoError(t, err)
	require.Len(t, influencers, 1)
	assert.Equal(t, "AAA111", influencers[0].ReferralCode)
	assert.Equal(t, int64(1), rec.getCount.Load())
}

// TestListInfluencersFallbackEqualsFile 远程读失败且允许回退时，结果与只用文件后端完全一致
func TestListInfluencersFallbackEqualsFile(t *testing.T) {
	seeded := []models.Influencer{
		{ID: "1", Name: "甲", ReferralCode: "AAA111", CommissionPercentage: 10, CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "2", Name: "乙", ReferralCode: "BBB222", CommissionPercentage: 20, CreatedAt: "2026-01-02T00:00:00Z"},
	}
	path := writeInfluencersFile(t, seeded)

	rec := newScriptRecorder(t)
	rec.status = http.StatusInternalServerError

	withFallback := New(Config{ScriptURL: rec.server.URL, FilePath: path, AllowFallback: true})
	fileOnly := New(Config{FilePath: path})

	fromFallback, err := withFallback.ListInfluencers(context.Background())
	require.NoError(t, err)
	fromFile, err := fileOnly.ListInfluencers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromFallback)
	assert.Equal(t, seeded, fromFallback)
}

// TestListInfluencersNoFallback 不允许回退时远程错误直接透出
func TestListInfluencersNoFallback(t *testing.T) {
	rec := newScriptRecorder(t)
	rec.status = http.StatusInternalServerError

	gateway := New(Config{ScriptURL: rec.server.URL, AllowFallback: false})

	_, err := gateway.ListInfluencers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

// TestListInfluencersFromFeed 未配置脚本端点时从公开数据源读取并映射
func TestListInfluencersFromFeed(t *testing.T) {
	doc := `{"table":{"rows":[` +
		`{"c":[{"v":"id"},{"v":"name"},{"v":"referralCode"},{"v":"commissionPercentage"},{"v":"createdAt"}]},` +
		`{"c":[{"v":"7001"},{"v":"丁"},{"v":"DDD444"},{"v":15},{"v":"2026-02-01T00:00:00Z"}]}]}}`
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("google.visualization.Query.setResponse(" + doc + ");"))
	}))
	t.Cleanup(feed.Close)

	gateway := New(Config{InfluencerFeedURL: feed.URL})

	influencers, err := gateway.ListInfluencers(context.Background())
	require.NoError(t, err)
	require.Len(t, influencers, 1)
	assert.Equal(t, "7001", influencers[0].ID)
	assert.Equal(t, "DDD444", influencers[0].ReferralCode)
	assert.Equal(t, 15.0, influencers[0].CommissionPercentage)
}

// TestCreateInfluencerValidation 校验失败的请求不触达任何后端
func TestCreateInfluencerValidation(t *testing.T) {
	rec := newScriptRecorder(t)
	gateway := New(Config{ScriptURL: rec.server.URL})

	cases := []struct {
		name  string
		input models.Influencer
	}{
		{"姓名为空", models.Influencer{Name: "  ", ReferralCode: "ABC123", CommissionPercentage: 10}},
		{"推广码过短", models.Influencer{Name: "甲", ReferralCode: "ab", CommissionPercentage: 10}},
		{"推广码含非法字符", models.Influencer{Name: "甲", ReferralCode: "ab1#", CommissionPercentage: 10}},
		{"佣金超上限", models.Influencer{Name: "甲", ReferralCode: "ABC123", CommissionPercentage: 100.01}},
		{"佣金为负", models.Influencer{Name: "甲", ReferralCode: "ABC123", CommissionPercentage: -0.01}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gateway.CreateInfluencer(context.Background(), tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, int64(0), rec.getCount.Load())
	assert.Equal(t, int64(0), rec.postCount.Load())
}

// TestCreateInfluencerDuplicate 推广码查重不区分大小写，查重失败时不执行写入
func TestCreateInfluencerDuplicate(t *testing.T) {
	rec := newScriptRecorder(t)
	rec.influencers = []models.Influencer{
		{ID: "1", Name: "甲", ReferralCode: "DUPE1", CommissionPercentage: 10},
	}

	gateway := New(Config{ScriptURL: rec.server.URL})

	_, err := gateway.CreateInfluencer(context.Background(), models.Influencer{
		Name:                 "乙",
		ReferralCode:         "dupe1",
		CommissionPercentage: 5,
	})
	require.ErrorIs(t, err, ErrDuplicateReferralCode)
	assert.Equal(t, int64(0), rec.postCount.Load())
}

// TestCreateInfluencerFileBackend 文件后端创建：服务端生成标识和创建时间，忽略请求携带的值
func TestCreateInfluencerFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influencers.json")
	gateway := New(Config{FilePath: path})

	created, err := gateway.CreateInfluencer(context.Background(), models.Influencer{
		ID:                   "请求携带的ID",
		Name:                 "  丙  ",
		ReferralCode:         "ab1",
		CommissionPercentage: 25,
		CreatedAt:            "请求携带的时间",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "请求携带的ID", created.ID)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "请求携带的时间", created.CreatedAt)
	assert.Equal(t, "丙", created.Name)
	assert.Equal(t, "AB1", created.ReferralCode)

	influencers, err := gateway.ListInfluencers(context.Background())
	require.NoError(t, err)
	require.Len(t, influencers, 1)
	assert.Equal(t, created, influencers[0])
}

// TestCreateInfluencerRemote 远程创建：POST请求体携带addInfluencer鉴别字段
func TestCreateInfluencerRemote(t *testing.T) {
	rec := newScriptRecorder(t)
	gateway := New(Config{ScriptURL: rec.server.URL})

	created, err := gateway.CreateInfluencer(context.Background(), models.Influencer{
		Name:                 "丁",
		ReferralCode:         "new123",
		CommissionPercentage: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW123", created.ReferralCode)
	require.Equal(t, int64(1), rec.postCount.Load())

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.lastBody.Load().(string)), &payload))
	assert.Equal(t, "addInfluencer", payload["action"])
	assert.Equal(t, "NEW123", payload["referralCode"])
	assert.Equal(t, "丁", payload["name"])
}

// TestDeleteInfluencerRemoteNotFound 远程报告不存在时按回退配置处理
func TestDeleteInfluencerRemoteNotFound(t *testing.T) {
	t.Run("允许回退时改走本地文件", func(t *testing.T) {
		path := writeInfluencersFile(t, []models.Influencer{
			{ID: "9001", Name: "甲", ReferralCode: "AAA111"},
		})
		rec := newScriptRecorder(t)
		rec.errorBody = "Influencer not found"

		gateway := New(Config{ScriptURL: rec.server.URL, FilePath: path, AllowFallback: true})
		require.NoError(t, gateway.DeleteInfluencer(context.Background(), "9001"))

		fileOnly := New(Config{FilePath: path})
		influencers, err := fileOnly.ListInfluencers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, influencers)
	})

	t.Run("不允许回退时直接透出", func(t *testing.T) {
		rec := newScriptRecorder(t)
		rec.errorBody = "Influencer not found"

		gateway := New(Config{ScriptURL: rec.server.URL, AllowFallback: false})
		err := gateway.DeleteInfluencer(context.Background(), "9001")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestListOrders 订单来自公开数据源的解析结果
func TestListOrders(t *testing.T) {
	doc := `{"table":{"rows":[` +
		`{"c":[{"v":"id"},{"v":"name"},{"v":"phone"},{"v":"address"},{"v":"price"},{"v":"referralCode"},{"v":"status"}]},` +
		`{"c":[{"v":"8001"},{"v":"客户甲"},{"v":"138"},{"v":"地址一"},{"v":200},{"v":"X1"},{"v":"completed"}]},` +
		`{"c":[{"v":null},{"v":"无标识"}]},` +
		`{"c":[{"v":"8002"},{"v":"客户乙"},{"v":"139"},{"v":"地址二"},{"v":50},{"v":"X1"},{"v":"pending"}]}]}}`
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("(" + doc + ")"))
	}))
	t.Cleanup(feed.Close)

	gateway := New(Config{FeedURL: feed.URL})

	orders, err := gateway.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "8001", orders[0].ID)
	assert.Equal(t, 200.0, orders[0].Price)
	assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
	assert.Equal(t, "8002", orders[1].ID)
}

// TestListOrdersUpstreamError 数据源返回非成功状态时归类为远程错误
func TestListOrdersUpstreamError(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(feed.Close)

	gateway := New(Config{FeedURL: feed.URL})

	_, err := gateway.ListOrders(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

// TestCreateOrderRequiresScript 订单创建没有本地文件路径，未配置远程端点时直接报错
func TestCreateOrderRequiresScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "influencers.json")
	gateway := New(Config{FilePath: path, AllowFallback: true})

	err := gateway.CreateOrder(context.Background(), models.Order{Name: "客户", Price: 100})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

// TestCreateOrderRemote 订单创建的请求体就是订单字段本身，不携带action鉴别字段
func TestCreateOrderRemote(t *testing.T) {
	rec := newScriptRecorder(t)
	gateway := New(Config{ScriptURL: rec.server.URL})

	err := gateway.CreateOrder(context.Background(), models.Order{
		Name:         "客户丙",
		Price:        88,
		ReferralCode: "x1code",
		Status:       "未知状态",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.postCount.Load())

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.lastBody.Load().(string)), &payload))
	_, hasAction := payload["action"]
	assert.False(t, hasAction)
	assert.Equal(t, "X1CODE", payload["referralCode"])
	assert.Equal(t, models.OrderStatusPending, payload["status"])
}

// TestUpdateOrderStatus 状态更新通过查询参数发起
func TestUpdateOrderStatus(t *testing.T) {
	rec := newScriptRecorder(t)
	gateway := New(Config{ScriptURL: rec.server.URL})

	// 非法状态在本地拦截，不触达远程
	err := gateway.UpdateOrderStatus(context.Background(), "8001", "shipped")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), rec.getCount.Load())

	require.NoError(t, gateway.UpdateOrderStatus(context.Background(), "8001", models.OrderStatusCompleted))
	require.Equal(t, int64(1), rec.getCount.Load())
	query := rec.lastQuery.Load().(string)
	assert.Contains(t, query, "action=updateStatus")
	assert.Contains(t, query, "orderId=8001")
	assert.Contains(t, query, "status=completed")
}

// TestRemoteTimeout 远程调用超过配置的超时时间时归类为超时错误
func TestRemoteTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"influencers":[]}`))
	}))
	t.Cleanup(slow.Close)

	gateway := New(Config{ScriptURL: slow.URL, Timeout: 50 * time.Millisecond})

	_, err := gateway.ListInfluencers(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}
