package services

import (
	"context"
	"sync"

	"personalization_api/logger"
	"personalization_api/repository"
	"personalization_api/utils"
)

// APIKeyService 共享密钥管理：校验、轮换、持久化
// 轮换即清空整个推荐缓存，这是设计上唯一的手动缓存失效入口
type APIKeyService struct {
	mu       sync.RWMutex
	key      string
	settings SettingsStore // 可为nil（无数据库时密钥只存在于配置/内存）
	cache    *RecommendationCache
}

// NewAPIKeyService 创建密钥服务
// 持久化存储中已有密钥时优先生效，否则使用配置中的密钥
func NewAPIKeyService(ctx context.Context, configKey string, settings SettingsStore, cache *RecommendationCache) *APIKeyService {
	s := &APIKeyService{key: configKey, settings: settings, cache: cache}

	if settings != nil {
		stored, err := settings.Get(ctx, repository.SettingAPIKey)
		if err != nil {
			logger.Error("Failed to load stored API key, using configured key", "error", err)
		} else if stored != "" {
			s.key = stored
		}
	}

	if s.key == "" {
		logger.Warn("No API key configured, all API requests will be rejected until one is generated")
	} else {
		logger.Info("API key loaded", "key", utils.MaskAPIKey(s.key))
	}
	return s
}

// Verify 常数时间校验候选密钥，未配置密钥时一律拒绝
func (s *APIKeyService) Verify(candidate string) bool {
	s.mu.RLock()
	key := s.key
	s.mu.RUnlock()

	if key == "" || candidate == "" {
		return false
	}
	return utils.SecureCompare(key, candidate)
}

// Masked 当前密钥的掩码展示形式
func (s *APIKeyService) Masked() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return utils.MaskAPIKey(s.key)
}

// Rotate 生成并启用新密钥，持久化后清空推荐缓存
// 完整密钥只在本次返回中出现一次
func (s *APIKeyService) Rotate(ctx context.Context) (string, error) {
	key, err := utils.GenerateAPIKey()
	if err != nil {
		return "", err
	}

	if s.settings != nil {
		if err := s.settings.Set(ctx, repository.SettingAPIKey, key); err != nil {
			return "", err
		}
	}

	s.mu.Lock()
	s.key = key
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.InvalidateAll()
	}

	logger.Info("API key rotated, recommendation cache flushed", "key", utils.MaskAPIKey(key))
	return key, nil
}
