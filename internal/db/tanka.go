package db

import (
	"time"

	"gorm.io/datatypes"
)

// Tanka 定义了交换池中的一首短歌。
// 被选为交换对象后整行删除，exchange_count 只在删除前自增一次，
// 历史次数由 exchange_history 的行数持久保留。
type Tanka struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Content       string         `gorm:"not null" json:"content"`
	UserID        *uint          `gorm:"column:user_id" json:"user_id,omitempty"`
	User          *User          `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	ExchangeCount int            `gorm:"not null;default:0" json:"exchange_count"`
	Embedding     datatypes.JSON `json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	Categories    []Category     `gorm:"many2many:tanka_categories;foreignKey:ID;joinForeignKey:TankaID;references:CategoryID;joinReferences:CategoryID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
}

func (Tanka) TableName() string {
	return "tanka_pool"
}
