package service

import (
	"errors"
	"strings"
	"time"

	"github.com/tankapool/internal/db"
	"gorm.io/gorm"
)

var ErrNoExchanges = errors.New("user has no exchanges")

// StatsService 提供只读的统计与列表查询
type StatsService struct {
	db *gorm.DB
}

// CategorizedTanka 是带逗号拼接分类名的池内短歌
type CategorizedTanka struct {
	ID            uint      `json:"id"`
	Content       string    `json:"content"`
	ExchangeCount int       `json:"exchange_count"`
	CreatedAt     time.Time `json:"created_at"`
	Categories    string    `json:"categories"`
}

// PopularTanka 是按历史交换次数排序的池内短歌。
// 次数按 exchange_history 中 received 引用的行数统计，与冗余计数无关。
type PopularTanka struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	Exchanges int64  `json:"exchanges"`
}

// CategoryStat 是单个分类的成员数统计
type CategoryStat struct {
	CategoryID  uint   `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TankaCount  int64  `json:"tanka_count"`
}

// UserExchangeStats 是单个用户的交换统计
type UserExchangeStats struct {
	Total   int64     `json:"total"`
	FirstAt time.Time `json:"first_at"`
	LastAt  time.Time `json:"last_at"`
}

// NewStatsService creates a StatsService instance.
func NewStatsService(gdb *gorm.DB) *StatsService {
	return &StatsService{db: gdb}
}

// TankasByCategory 返回指定分类下的短歌，新的在前。
// 分类不存在或没有成员时返回空切片而不是错误。
func (s *StatsService) TankasByCategory(name string) ([]CategorizedTanka, error) {
	var tankas []db.Tanka
	if err := s.db.
		Joins("JOIN tanka_categories ON tanka_categories.tanka_id = tanka_pool.id").
		Joins("JOIN categories ON categories.category_id = tanka_categories.category_id").
		Where("categories.name = ?", name).
		Preload("Categories", func(pdb *gorm.DB) *gorm.DB {
			return pdb.Order("categories.category_id asc")
		}).
		Order("tanka_pool.created_at desc").
		Order("tanka_pool.id desc").
		Find(&tankas).Error; err != nil {
		return nil, err
	}
	return categorize(tankas), nil
}

// PopularTankas 返回按历史交换次数降序的前 limit 首短歌。
// 同次数时按 ID 升序，保证结果可复现。
func (s *StatsService) PopularTankas(limit int) ([]PopularTanka, error) {
	if limit <= 0 {
		limit = 10
	}

	rows := make([]PopularTanka, 0, limit)
	if err := s.db.Table("tanka_pool").
		Select("tanka_pool.id, tanka_pool.content, " +
			"(SELECT COUNT(*) FROM exchange_history WHERE exchange_history.received_tanka_id = tanka_pool.id) AS exchanges").
		Order("exchanges desc").
		Order("tanka_pool.id asc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryStats 返回每个分类的当前成员数，按成员数降序
func (s *StatsService) CategoryStats() ([]CategoryStat, error) {
	var rows []CategoryStat
	if err := s.db.Table("categories").
		Select("categories.category_id, categories.name, categories.description, " +
			"(SELECT COUNT(*) FROM tanka_categories WHERE tanka_categories.category_id = categories.category_id) AS tanka_count").
		Order("tanka_count desc").
		Order("categories.category_id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UserExchangeStats 返回用户的交换总数与首末时间。
// 用户从未交换时返回 ErrNoExchanges。
func (s *StatsService) UserExchangeStats(userID uint) (*UserExchangeStats, error) {
	var stats UserExchangeStats
	if err := s.db.Model(&db.ExchangeHistory{}).
		Where("user_id = ?", userID).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return nil, ErrNoExchanges
	}

	var bounds struct {
		FirstAt time.Time
		LastAt  time.Time
	}
	if err := s.db.Model(&db.ExchangeHistory{}).
		Select("MIN(exchanged_at) AS first_at, MAX(exchanged_at) AS last_at").
		Where("user_id = ?", userID).
		Scan(&bounds).Error; err != nil {
		return nil, err
	}
	stats.FirstAt = bounds.FirstAt
	stats.LastAt = bounds.LastAt

	return &stats, nil
}

// UserExchangeHistory 返回用户最近的 limit 条交换历史，新的在前
func (s *StatsService) UserExchangeHistory(userID uint, limit int) ([]db.ExchangeHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	var history []db.ExchangeHistory
	if err := s.db.
		Where("user_id = ?", userID).
		Order("exchanged_at desc").
		Order("exchange_id desc").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// AllCategories 返回全部分类
func (s *StatsService) AllCategories() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("category_id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// AllTankasWithCategories 返回池中全部短歌及其分类，新的在前
func (s *StatsService) AllTankasWithCategories() ([]CategorizedTanka, error) {
	var tankas []db.Tanka
	if err := s.db.
		Preload("Categories", func(pdb *gorm.DB) *gorm.DB {
			return pdb.Order("categories.category_id asc")
		}).
		Order("created_at desc").
		Order("id desc").
		Find(&tankas).Error; err != nil {
		return nil, err
	}
	return categorize(tankas), nil
}

func categorize(tankas []db.Tanka) []CategorizedTanka {
	out := make([]CategorizedTanka, 0, len(tankas))
	for _, tanka := range tankas {
		names := make([]string, 0, len(tanka.Categories))
		for _, category := range tanka.Categories {
			names = append(names, category.Name)
		}
		out = append(out, CategorizedTanka{
			ID:            tanka.ID,
			Content:       tanka.Content,
			ExchangeCount: tanka.ExchangeCount,
			CreatedAt:     tanka.CreatedAt,
			Categories:    strings.Join(names, ","),
		})
	}
	return out
}
