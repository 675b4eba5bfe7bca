package repository

import (
	"context"
	"database/sql"

	"personalization_api/db"
	"personalization_api/models"
)

// PostRepo 基于MySQL的内容条目存储
type PostRepo struct{}

func NewPostRepo() *PostRepo {
	return &PostRepo{}
}

const postColumns = `id, title, excerpt, content, url, status, published_at,
		COALESCE(industry, ''), COALESCE(company_size, ''), COALESCE(role, '')`

// QueryEligible 查询已发布的候选文章
// eligibleOnly 为 true 时只返回带有至少一个非空定向属性的文章（无筛选模式的候选池）
func (r *PostRepo) QueryEligible(ctx context.Context, eligibleOnly bool) ([]models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE status = ?`
	if eligibleOnly {
		query += `
		AND (COALESCE(industry, '') != '' OR COALESCE(company_size, '') != '' OR COALESCE(role, '') != '')`
	}
	query += `
		ORDER BY published_at DESC`

	rows, err := db.DB.QueryContext(ctx, query, models.StatusPublish)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// GetPost 按ID获取文章，不存在时返回 sql.ErrNoRows
func (r *PostRepo) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+postColumns+`
		FROM posts
		WHERE id = ?`, id)

	var p models.Post
	if err := scanPost(row.Scan, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTargeted 列出所有带定向属性的文章（任意状态），供受众列表使用
func (r *PostRepo) ListTargeted(ctx context.Context) ([]models.Post, error) {
	rows, err := db.DB.QueryContext(ctx, `SELECT `+postColumns+`
		FROM posts
		WHERE COALESCE(industry, '') != '' OR COALESCE(company_size, '') != '' OR COALESCE(role, '') != ''
		ORDER BY id DESC
		LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows.Scan, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func scanPost(scan func(dest ...any) error, p *models.Post) error {
	return scan(&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.URL, &p.Status,
		&p.PublishedAt, &p.Industry, &p.CompanySize, &p.Role)
}
