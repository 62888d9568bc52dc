package models

import "time"

// 交易类型常量
const (
	KindIncome   = "income"   // 收入
	KindExpense  = "expense"  // 支出
	KindTransfer = "transfer" // 账户间转账
)

// Transaction 交易记录模型
// 金额以最小货币单位（如"分"）的有符号整数存储：支出为负，收入为正
// 转账由两条共享 transfer_group_id 的记录构成：转出账户一条负数、转入账户一条正数
type Transaction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index;not null"`
	AccountID       uint      `json:"account_id" gorm:"index;not null"`
	CategoryID      *uint     `json:"category_id" gorm:"index"`
	Kind            string    `json:"kind" gorm:"size:20;not null;index"`
	Date            time.Time `json:"date" gorm:"type:date;not null;index"`
	AmountMinor     int64     `json:"amount_minor" gorm:"not null"`
	Note            string    `json:"note" gorm:"size:200"`
	Counterparty    string    `json:"counterparty" gorm:"size:80"`
	TransferGroupID *string   `json:"transfer_group_id" gorm:"size:36;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            User      `json:"-" gorm:"foreignKey:UserID"`
	Account         Account   `json:"-" gorm:"foreignKey:AccountID"`
	Category        *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// IsValidKind 校验交易类型
func IsValidKind(kind string) bool {
	switch kind {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}
	return false
}

// TransactionRow 交易列表行（联查账户/分类名称，对应读取视图）
type TransactionRow struct {
	ID              uint      `json:"id"`
	Kind            string    `json:"kind"`
	Date            time.Time `json:"date"`
	AmountMinor     int64     `json:"amount_minor"`
	Note            string    `json:"note"`
	Counterparty    string    `json:"counterparty"`
	TransferGroupID *string   `json:"transfer_group_id"`
	AccountID       uint      `json:"account_id"`
	AccountName     string    `json:"account_name"`
	Currency        string    `json:"currency"`
	CategoryID      *uint     `json:"category_id"`
	CategoryName    *string   `json:"category_name"`
	CreatedAt       time.Time `json:"created_at"`
}
