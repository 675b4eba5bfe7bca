package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"personalization_api/logger"
	"personalization_api/models"
)

// ExportService 周期性将统计计数快照POST到外部分析服务
// export_url 为空时禁用；上报失败重试由HTTP客户端处理，最终失败只记日志，
// 下个周期重新上报全量快照
type ExportService struct {
	analytics AnalyticsRecorder
	url       string
	client    *retryablehttp.Client
}

// exportPayload 上报请求体
type exportPayload struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Stats       []models.PostStats `json:"stats"`
}

func NewExportService(analytics AnalyticsRecorder, url string, retryMax int) *ExportService {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil // 重试细节不进业务日志

	return &ExportService{
		analytics: analytics,
		url:       url,
		client:    client,
	}
}

// Enabled 是否配置了上报地址
func (s *ExportService) Enabled() bool {
	return s.url != ""
}

// Export 上报一次当前计数快照
func (s *ExportService) Export(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	stats, err := s.analytics.ListCounters(ctx)
	if err != nil {
		return fmt.Errorf("list counters: %w", err)
	}
	if len(stats) == 0 {
		logger.Debug("No analytics counters to export")
		return nil
	}

	body, err := json.Marshal(exportPayload{
		GeneratedAt: time.Now(),
		Stats:       stats,
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("export analytics snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("export analytics snapshot: unexpected status %d", resp.StatusCode)
	}

	logger.Info("Analytics snapshot exported", "posts", len(stats))
	return nil
}
