package repository

import (
	"context"
	"database/sql"
	"errors"

	"personalization_api/db"
)

// 设置项名
const SettingAPIKey = "api_key"

// SettingsRepo 基于MySQL的键值设置存储，保存API密钥等少量配置
type SettingsRepo struct{}

func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{}
}

// Get 读取设置项，不存在时返回空字符串
func (r *SettingsRepo) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := db.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Set 写入设置项，存在则覆盖
func (r *SettingsRepo) Set(ctx context.Context, name, value string) error {
	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO settings (name, value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)
	`, name, value)
	return err
}
