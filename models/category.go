package models

// CategoryType 消费类别（固定集合）
type CategoryType string

// 类别常量，ID 固定
const (
	CategoryFood          CategoryType = "Alimentação"
	CategoryTransport     CategoryType = "Transporte"
	CategoryEntertainment CategoryType = "Entretenimento"
	CategoryOther         CategoryType = "Outros"
	CategoryHealth        CategoryType = "Saúde"
	CategoryEducation     CategoryType = "Educação"
	CategoryShopping      CategoryType = "Compras"
	CategoryTravel        CategoryType = "Viagem"
	CategoryInvestments   CategoryType = "Investimentos"
	CategoryDebts         CategoryType = "Dívidas"
)

// categoryOrder 决定各类别的 ID（下标 + 1）
var categoryOrder = []CategoryType{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryOther,
	CategoryHealth,
	CategoryEducation,
	CategoryShopping,
	CategoryTravel,
	CategoryInvestments,
	CategoryDebts,
}

// Category 消费类别（参考数据，只读）
type Category struct {
	ID   uint         `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name CategoryType `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

func (Category) TableName() string {
	return "categories"
}

// GetCategories 获取所有消费类别
func GetCategories() []Category {
	cats := make([]Category, 0, len(categoryOrder))
	for i, name := range categoryOrder {
		cats = append(cats, Category{ID: uint(i + 1), Name: name})
	}
	return cats
}

// CategoryByID 按 ID 查找类别
func CategoryByID(id uint) (Category, bool) {
	if id == 0 || int(id) > len(categoryOrder) {
		return Category{}, false
	}
	return Category{ID: id, Name: categoryOrder[id-1]}, true
}

// Valid 是否为已知类别
func (c CategoryType) Valid() bool {
	for _, name := range categoryOrder {
		if name == c {
			return true
		}
	}
	return false
}

func (c CategoryType) String() string {
	return string(c)
}
