package models

import "time"

// 账户类型常量
const (
	AccountTypeBank    = "bank"    // 银行卡
	AccountTypeEwallet = "ewallet" // 电子钱包
	AccountTypeCash    = "cash"    // 现金
	AccountTypeOther   = "other"   // 其他
)

// Account 资金账户模型
// 币种在创建后固定不变；余额不落库，由交易表汇总得出
type Account struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"size:80;not null"`
	Currency  string    `json:"currency" gorm:"size:3;not null"`
	Owner     string    `json:"owner" gorm:"size:80;not null"` // 持有人标签，如"自己"、"家庭"
	Type      string    `json:"type" gorm:"size:20;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Account) TableName() string {
	return "accounts"
}

// GetAccountTypes 获取所有账户类型
func GetAccountTypes() []string {
	return []string{
		AccountTypeBank,
		AccountTypeEwallet,
		AccountTypeCash,
		AccountTypeOther,
	}
}

// IsValidAccountType 校验账户类型
func IsValidAccountType(t string) bool {
	switch t {
	case AccountTypeBank, AccountTypeEwallet, AccountTypeCash, AccountTypeOther:
		return true
	}
	return false
}

// 支持的币种（ISO 4217）
var supportedCurrencies = []string{"USD", "AUD", "EUR", "ARS", "IDR", "THB"}

// GetCurrencies 获取支持的币种列表
func GetCurrencies() []string {
	out := make([]string, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// IsValidCurrency 校验币种是否受支持
func IsValidCurrency(code string) bool {
	for _, c := range supportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
