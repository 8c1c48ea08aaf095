package db

// Category 定义了短歌分类模型，属于初始化时写入的基础数据
type Category struct {
	CategoryID  uint    `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name        string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string  `json:"description"`
	Tankas      []Tanka `gorm:"many2many:tanka_categories;foreignKey:CategoryID;joinForeignKey:CategoryID;references:ID;joinReferences:TankaID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
