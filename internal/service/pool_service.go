package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tankapool/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPoolEmpty       = errors.New("tanka pool is empty")
	ErrContentRequired = errors.New("tanka content is required")
)

// PoolService 封装短歌池的查询与增删操作
type PoolService struct {
	db *gorm.DB
}

// PoolCandidate 是随机选取的候选短歌
type PoolCandidate struct {
	ID      uint
	Content string
}

// NewPoolService creates a PoolService instance.
func NewPoolService(gdb *gorm.DB) *PoolService {
	return &PoolService{db: gdb}
}

// PickRandom 从池中均匀随机选取一首短歌，不做任何修改。
// 池为空时返回 ErrPoolEmpty。
func (s *PoolService) PickRandom() (*PoolCandidate, error) {
	var tanka db.Tanka
	if err := s.db.Order("RANDOM()").Take(&tanka).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPoolEmpty
		}
		return nil, err
	}
	return &PoolCandidate{ID: tanka.ID, Content: tanka.Content}, nil
}

// Insert 向池中追加一首短歌并返回其 ID。embedding 可为空。
// ownerID 指向不存在的用户时由外键约束拒绝。
func (s *PoolService) Insert(content string, ownerID *uint, embedding []float64) (uint, error) {
	if strings.TrimSpace(content) == "" {
		return 0, ErrContentRequired
	}

	tanka := db.Tanka{Content: content, UserID: ownerID}
	if len(embedding) > 0 {
		buf, err := json.Marshal(embedding)
		if err != nil {
			return 0, fmt.Errorf("encode embedding: %w", err)
		}
		tanka.Embedding = datatypes.JSON(buf)
	}

	if err := s.db.Create(&tanka).Error; err != nil {
		return 0, err
	}
	return tanka.ID, nil
}

// Categorize 把短歌关联到若干既有分类，未知分类名被忽略
func (s *PoolService) Categorize(tankaID uint, categoryNames []string) error {
	if len(categoryNames) == 0 {
		return nil
	}

	var tanka db.Tanka
	if err := s.db.First(&tanka, tankaID).Error; err != nil {
		return err
	}

	var categories []db.Category
	if err := s.db.Where("name IN ?", categoryNames).Find(&categories).Error; err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	return s.db.Model(&tanka).Association("Categories").Append(&categories)
}

// Delete 删除指定短歌。ID 不存在时不报错，存储层幂等。
func (s *PoolService) Delete(id uint) error {
	return s.db.Delete(&db.Tanka{}, id).Error
}

// Count 返回池中短歌总数
func (s *PoolService) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Tanka{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TankasWithoutEmbeddings 返回尚未生成向量的短歌，供回填脚本使用
func (s *PoolService) TankasWithoutEmbeddings() ([]PoolCandidate, error) {
	var tankas []db.Tanka
	if err := s.db.Where("embedding IS NULL").Order("id asc").Find(&tankas).Error; err != nil {
		return nil, err
	}

	candidates := make([]PoolCandidate, 0, len(tankas))
	for _, tanka := range tankas {
		candidates = append(candidates, PoolCandidate{ID: tanka.ID, Content: tanka.Content})
	}
	return candidates, nil
}

// UpdateEmbedding 写入一首短歌的向量
func (s *PoolService) UpdateEmbedding(id uint, embedding []float64) error {
	buf, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	return s.db.Model(&db.Tanka{}).
		Where("id = ?", id).
		Update("embedding", datatypes.JSON(buf)).Error
}
