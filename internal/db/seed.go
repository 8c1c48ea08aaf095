package db

import "gorm.io/gorm"

type seedTanka struct {
	content    string
	categories []string
}

// 分类基础数据，只在空库时写入
var seedCategories = []Category{
	{Name: "春", Description: "春の季語を含む短歌"},
	{Name: "夏", Description: "夏の季語を含む短歌"},
	{Name: "秋", Description: "秋の季語を含む短歌"},
	{Name: "冬", Description: "冬の季語を含む短歌"},
	{Name: "恋", Description: "恋愛をテーマにした短歌"},
	{Name: "自然", Description: "自然をテーマにした短歌"},
}

// 初始短歌，保证新部署的池子不为空
var seedTankas = []seedTanka{
	{"古池や\n蛙飛び込む\n水の音\n静けさに\n響く波紋", []string{"夏", "自然"}},
	{"春過ぎて\n夏来にけらし\n白妙の\n衣干すてふ\n天の香具山", []string{"夏", "自然"}},
	{"秋の田の\nかりほの庵の\n苫をあらみ\nわが身世にふる\n露にぬれつつ", []string{"秋", "自然"}},
	{"花の色は\nうつりにけりな\nいたづらに\nわが身世にふる\nながめせしまに", []string{"春", "恋"}},
	{"月見れば\nちぢに物こそ\n悲しけれ\nわが身一つの\n秋にはあらねど", []string{"秋", "自然"}},
	{"山里は\n冬ぞ寂しさ\nまさりける\n人目も草も\nかれぬと思へば", []string{"冬", "自然"}},
	{"風そよぐ\n楢の小川の\n夕暮れは\nみそぎぞ夏の\nしるしなりける", []string{"夏", "自然"}},
	{"忘れじの\nゆく末までは\nかたければ\n今日を限りの\n命ともがな", []string{"恋"}},
	{"瀬をはやみ\n岩にせかるる\n滝川の\nわれても末に\nあはむとぞ思ふ", []string{"恋", "自然"}},
	{"もろともに\nあはれと思へ\n山桜\n花よりほかに\n知る人もなし", []string{"春", "自然"}},
}

// Seed 写入分类与初始短歌。分类或池子非空时对应部分跳过，重复执行安全。
func Seed(gdb *gorm.DB) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var categoryCount int64
		if err := tx.Model(&Category{}).Count(&categoryCount).Error; err != nil {
			return err
		}
		if categoryCount == 0 {
			for _, category := range seedCategories {
				c := category
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
			}
		}

		var tankaCount int64
		if err := tx.Model(&Tanka{}).Count(&tankaCount).Error; err != nil {
			return err
		}
		if tankaCount > 0 {
			return nil
		}

		for _, seed := range seedTankas {
			var categories []Category
			if err := tx.Where("name IN ?", seed.categories).Find(&categories).Error; err != nil {
				return err
			}
			tanka := Tanka{Content: seed.content, Categories: categories}
			if err := tx.Create(&tanka).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
