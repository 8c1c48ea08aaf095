package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tankapool/internal/db"
	"github.com/tankapool/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// localClient 在内存中直接调用 handler，用 cookiejar 维持同一匿名会话
type localClient struct {
	handler http.Handler
	jar     http.CookieJar
	baseURL *url.URL
}

func newLocalClient(t *testing.T, handler http.Handler) *localClient {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	base, _ := url.Parse("http://tankapool.test")
	return &localClient{handler: handler, jar: jar, baseURL: base}
}

func (c *localClient) do(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, []byte) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, c.baseURL.String()+path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	c.jar.SetCookies(req.URL, w.Result().Cookies())

	return w, w.Body.Bytes()
}

func setupE2E(t *testing.T) (*localClient, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	if err := db.Seed(gdb); err != nil {
		t.Fatalf("failed to seed test db: %v", err)
	}

	r := router.SetupRouter(gdb, "e2e-secret", "tankapool_e2e")
	return newLocalClient(t, r), gdb
}

func TestFullExchangeJourney(t *testing.T) {
	client, gdb := setupE2E(t)

	// 初始池子来自种子数据
	w, body := client.do(t, http.MethodGet, "/api/pool_count", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pool_count failed: %d", w.Code)
	}
	var countResp struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(body, &countResp); err != nil {
		t.Fatalf("decode pool_count: %v", err)
	}
	if countResp.Count != 10 {
		t.Fatalf("expected seeded pool of 10, got %d", countResp.Count)
	}

	// 连续两次交换，保持同一会话
	for i := 0; i < 2; i++ {
		payload := map[string]any{
			"lines": []string{"東海の", "小島の磯の", "白砂に", "われ泣きぬれて", "蟹とたはむる"},
		}
		w, body = client.do(t, http.MethodPost, "/api/exchange", payload)
		if w.Code != http.StatusOK {
			t.Fatalf("exchange %d failed: %d %s", i, w.Code, string(body))
		}
		var resp struct {
			Received  string `json:"received"`
			PoolCount int64  `json:"pool_count"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode exchange: %v", err)
		}
		if resp.Received == "" {
			t.Fatal("expected non-empty received tanka")
		}
		if resp.PoolCount != 10 {
			t.Fatalf("swap must keep pool size stable, got %d", resp.PoolCount)
		}
	}

	// 同一会话只应产生一个用户
	var users int64
	if err := gdb.Model(&db.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Fatalf("expected a single user for one session, got %d", users)
	}

	// 用户统计反映两次交换
	w, body = client.do(t, http.MethodGet, "/api/user/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("user stats failed: %d", w.Code)
	}
	var statsResp struct {
		Stats *struct {
			Total int64 `json:"total"`
		} `json:"stats"`
		History []json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(body, &statsResp); err != nil {
		t.Fatalf("decode user stats: %v", err)
	}
	if statsResp.Stats == nil || statsResp.Stats.Total != 2 {
		t.Fatalf("expected 2 exchanges in stats, got %+v", statsResp.Stats)
	}
	if len(statsResp.History) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(statsResp.History))
	}

	// 全局统计可用
	w, body = client.do(t, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats failed: %d", w.Code)
	}
	var bundle struct {
		Popular       []json.RawMessage `json:"popular"`
		CategoryStats []struct {
			Name       string `json:"name"`
			TankaCount int64  `json:"tanka_count"`
		} `json:"category_stats"`
	}
	if err := json.Unmarshal(body, &bundle); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if len(bundle.CategoryStats) != 6 {
		t.Fatalf("expected 6 seeded categories, got %d", len(bundle.CategoryStats))
	}
}

func TestCategoryListingEndpoint(t *testing.T) {
	client, _ := setupE2E(t)

	w, body := client.do(t, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories failed: %d", w.Code)
	}
	var resp struct {
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(resp.Categories) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(resp.Categories))
	}

	w, body = client.do(t, http.MethodGet, "/api/categories/恋/tankas", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("category tankas failed: %d", w.Code)
	}
	var listing struct {
		Tankas []struct {
			Categories string `json:"categories"`
		} `json:"tankas"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Tankas) == 0 {
		t.Fatal("seeded 恋 category must not be empty")
	}
}
