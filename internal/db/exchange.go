package db

import "time"

// ExchangeHistory 定义了一次完成的交换，只追加不修改。
// 短歌内容在写入时冗余保存，池中原行删除后记录依然完整；
// given/received 两个 ID 不加外键约束，允许指向已删除的池行。
type ExchangeHistory struct {
	ExchangeID           uint      `gorm:"primaryKey;column:exchange_id" json:"exchange_id"`
	UserID               uint      `gorm:"column:user_id;not null" json:"user_id"`
	User                 *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	GivenTankaID         *uint     `json:"given_tanka_id"`
	GivenTankaContent    string    `gorm:"not null" json:"given_tanka_content"`
	ReceivedTankaID      *uint     `json:"received_tanka_id"`
	ReceivedTankaContent string    `gorm:"not null" json:"received_tanka_content"`
	ExchangedAt          time.Time `gorm:"autoCreateTime" json:"exchanged_at"`
}

func (ExchangeHistory) TableName() string {
	return "exchange_history"
}
