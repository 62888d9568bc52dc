package models

import "time"

// 分类方向常量
const (
	CategoryKindIncome  = "income"  // 收入分类
	CategoryKindExpense = "expense" // 支出分类
)

// Category 交易分类
// 名称在同一用户内唯一（复合唯一索引），不同用户可重名
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_category_name"`
	Name      string    `json:"name" gorm:"size:80;not null;uniqueIndex:idx_user_category_name"`
	Kind      string    `json:"kind" gorm:"size:20;not null;default:expense"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// IsValidCategoryKind 校验分类方向
func IsValidCategoryKind(kind string) bool {
	return kind == CategoryKindIncome || kind == CategoryKindExpense
}
