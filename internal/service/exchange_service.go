package service

import (
	"errors"
	"strings"

	"github.com/tankapool/internal/db"
	"gorm.io/gorm"
)

var (
	ErrEmptySubmission  = errors.New("submission is empty")
	ErrExchangeConflict = errors.New("exchange conflicted with a concurrent request")
)

// SubmissionLines 是一次投稿的行数
const SubmissionLines = 5

// ExchangeService 负责完整的交换事务：
// 解析用户 → 随机选取候选 → 写入投稿 → 记录历史并累加计数 → 删除候选。
// 除用户解析外的所有步骤在同一数据库事务中执行，任一步失败整体回滚。
type ExchangeService struct {
	db    *gorm.DB
	users *UserService
}

// ExchangeResult 描述一次成功的交换
type ExchangeResult struct {
	ExchangeID      uint
	UserID          uint
	GivenTankaID    uint
	ReceivedTankaID uint
	ReceivedContent string
}

// NewExchangeService creates an ExchangeService instance.
func NewExchangeService(gdb *gorm.DB) *ExchangeService {
	return &ExchangeService{db: gdb, users: NewUserService(gdb)}
}

// JoinLines 逐行去除首尾空白后用换行符拼接。
// 所有行均为空时第二个返回值为 false。
func JoinLines(lines []string) (string, bool) {
	trimmed := make([]string, len(lines))
	hasContent := false
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
		if trimmed[i] != "" {
			hasContent = true
		}
	}
	return strings.Join(trimmed, "\n"), hasContent
}

// Exchange 执行一次交换：caller 提交五行短歌，换回池中随机一首。
// 输入全空返回 ErrEmptySubmission，池空返回 ErrPoolEmpty，两者都不产生任何写入。
// 候选在提交前被并发取走时返回 ErrExchangeConflict，调用方可重试。
func (s *ExchangeService) Exchange(sessionID string, lines []string) (*ExchangeResult, error) {
	content, ok := JoinLines(lines)
	if !ok {
		return nil, ErrEmptySubmission
	}

	userID, err := s.users.GetOrCreate(sessionID)
	if err != nil {
		return nil, err
	}

	var result ExchangeResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var candidate db.Tanka
		if err := tx.Order("RANDOM()").Take(&candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPoolEmpty
			}
			return err
		}

		given := db.Tanka{Content: content, UserID: &userID}
		if err := tx.Create(&given).Error; err != nil {
			return err
		}

		exchangeID, err := recordExchange(tx, userID, &given.ID, content, candidate.ID, candidate.Content)
		if err != nil {
			return err
		}

		// 乐观删除：影响行数为零说明候选已被并发事务取走，整体回滚
		deleted := tx.Delete(&db.Tanka{}, candidate.ID)
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			return ErrExchangeConflict
		}

		result = ExchangeResult{
			ExchangeID:      exchangeID,
			UserID:          userID,
			GivenTankaID:    given.ID,
			ReceivedTankaID: candidate.ID,
			ReceivedContent: candidate.Content,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// recordExchange 写入历史行并把计数加到被取走的短歌上。
// 两次写入共用外层事务，计数未命中任何行时返回 ErrExchangeConflict 使整体回滚。
func recordExchange(tx *gorm.DB, userID uint, givenID *uint, givenContent string, receivedID uint, receivedContent string) (uint, error) {
	history := db.ExchangeHistory{
		UserID:               userID,
		GivenTankaID:         givenID,
		GivenTankaContent:    givenContent,
		ReceivedTankaID:      &receivedID,
		ReceivedTankaContent: receivedContent,
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, err
	}

	counted := tx.Model(&db.Tanka{}).
		Where("id = ?", receivedID).
		Update("exchange_count", gorm.Expr("exchange_count + 1"))
	if counted.Error != nil {
		return 0, counted.Error
	}
	if counted.RowsAffected == 0 {
		return 0, ErrExchangeConflict
	}

	return history.ExchangeID, nil
}
