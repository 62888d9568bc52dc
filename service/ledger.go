package service

import (
	"errors"
	"time"

	"ledger/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSameAccount 转出和转入账户相同
	ErrSameAccount = errors.New("转出和转入账户不能相同")
	// ErrAccountNotFound 账户不存在或不属于当前用户
	ErrAccountNotFound = errors.New("账户不存在")
)

// NormalizeAmount 按交易类型归一化金额符号：支出取负、收入取正
// 入参取绝对值，符号完全由 kind 决定
func NormalizeAmount(kind string, amountMinor int64) int64 {
	abs := amountMinor
	if abs < 0 {
		abs = -abs
	}
	if kind == models.KindExpense {
		return -abs
	}
	return abs
}

// TransferInput 转账输入
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	AmountMinor   int64 // 无符号数值，两腿分别取负/正
	Date          time.Time
	Note          string
}

// buildTransferLegs 构造转账的两条记录：转出账户负数、转入账户正数，共享一个组 ID
func buildTransferLegs(userID uint, in TransferInput) ([]models.Transaction, string) {
	amount := in.AmountMinor
	if amount < 0 {
		amount = -amount
	}
	groupID := uuid.NewString()
	legs := []models.Transaction{
		{
			UserID:          userID,
			AccountID:       in.FromAccountID,
			Kind:            models.KindTransfer,
			Date:            in.Date,
			AmountMinor:     -amount,
			Note:            in.Note,
			TransferGroupID: &groupID,
		},
		{
			UserID:          userID,
			AccountID:       in.ToAccountID,
			Kind:            models.KindTransfer,
			Date:            in.Date,
			AmountMinor:     amount,
			Note:            in.Note,
			TransferGroupID: &groupID,
		},
	}
	return legs, groupID
}

// CreateTransfer 在单个数据库事务中创建转账的两条记录，两腿要么都写入要么都不写入
// 校验失败在任何数据库操作之前返回；成功时返回转账组 ID
func CreateTransfer(db *gorm.DB, userID uint, in TransferInput) (string, error) {
	if in.FromAccountID == in.ToAccountID {
		return "", ErrSameAccount
	}

	legs, groupID := buildTransferLegs(userID, in)

	err := db.Transaction(func(tx *gorm.DB) error {
		// 两个账户都必须属于当前用户
		var cnt int64
		if err := tx.Model(&models.Account{}).
			Where("user_id = ? AND id IN ?", userID, []uint{in.FromAccountID, in.ToAccountID}).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt != 2 {
			return ErrAccountNotFound
		}
		// 批量插入：一条 INSERT 写入两腿
		return tx.Create(&legs).Error
	})
	if err != nil {
		return "", err
	}
	return groupID, nil
}

// DeleteTransaction 删除交易记录
// 带 groupID 时删除共享该组 ID 的所有记录（转账两腿一起消失），否则只删除单条
// 未命中任何行不视为错误（幂等删除），返回删除的行数
func DeleteTransaction(db *gorm.DB, userID uint, id uint, groupID string) (int64, error) {
	var res *gorm.DB
	if groupID != "" {
		res = db.Where("user_id = ? AND transfer_group_id = ?", userID, groupID).
			Delete(&models.Transaction{})
	} else {
		res = db.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.Transaction{})
	}
	return res.RowsAffected, res.Error
}
