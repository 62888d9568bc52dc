package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"ledger/database"
	"ledger/middleware"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// CreateTransactionRequest 创建收支记录请求
// 金额为十进制字符串（最多两位小数），符号在落库前按类型归一化
type CreateTransactionRequest struct {
	Kind         string `json:"kind" binding:"required,oneof=income expense" example:"expense"`
	AccountID    uint   `json:"account_id" binding:"required" example:"1"`
	CategoryID   *uint  `json:"category_id" example:"2"`
	Date         string `json:"date" binding:"required" example:"2024-01-15"`
	Amount       string `json:"amount" binding:"required" example:"12.34"`
	Note         string `json:"note" binding:"omitempty,max=200" example:"午餐"`
	Counterparty string `json:"counterparty" binding:"omitempty,max=80" example:"楼下餐馆"`
}

// CreateTransferRequest 创建转账请求
type CreateTransferRequest struct {
	FromAccountID uint   `json:"from_account_id" binding:"required" example:"1"`
	ToAccountID   uint   `json:"to_account_id" binding:"required" example:"2"`
	Date          string `json:"date" binding:"required" example:"2024-01-15"`
	Amount        string `json:"amount" binding:"required" example:"500.00"`
	Note          string `json:"note" binding:"omitempty,max=200" example:"还信用卡"`
}

// UpdateTransactionRequest 更新收支记录请求（转账记录不支持编辑）
type UpdateTransactionRequest struct {
	Kind         string  `json:"kind" binding:"omitempty,oneof=income expense"`
	CategoryID   *uint   `json:"category_id"`
	Date         string  `json:"date"`
	Amount       string  `json:"amount"`
	Note         *string `json:"note" binding:"omitempty,max=200"`
	Counterparty *string `json:"counterparty" binding:"omitempty,max=80"`
}

// TransactionListRequest 交易列表请求
type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"50"`
	Kind       string `form:"kind" example:"expense"`
	AccountID  uint   `form:"account_id" example:"1"`
	CategoryID uint   `form:"category_id" example:"2"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
	Keyword    string `form:"keyword" example:"午餐"`
}

// parseDate 解析纯日历日期（无时间/时区部分）
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// Create 创建收支记录
// @Summary 创建收支记录
// @Description 创建一条收入或支出记录。金额为正的十进制字符串，落库时支出取负、收入取正
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		BadRequestWithFields(c, "参数错误", map[string]string{"date": "日期格式错误，应为: 2006-01-02"})
		return
	}

	amountMinor, err := service.ParseAmountMinor(req.Amount)
	if err != nil {
		BadRequestWithFields(c, "参数错误", map[string]string{"amount": err.Error()})
		return
	}

	// 账户必须属于当前用户
	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", req.AccountID, userID).First(&account).Error; err != nil {
		BadRequestWithFields(c, "参数错误", map[string]string{"account_id": "账户不存在"})
		return
	}

	// 分类可选，选了必须属于当前用户
	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.Where("id = ? AND user_id = ?", *req.CategoryID, userID).First(&category).Error; err != nil {
			BadRequestWithFields(c, "参数错误", map[string]string{"category_id": "分类不存在"})
			return
		}
	}

	tx := models.Transaction{
		UserID:       userID,
		AccountID:    req.AccountID,
		CategoryID:   req.CategoryID,
		Kind:         req.Kind,
		Date:         date,
		AmountMinor:  service.NormalizeAmount(req.Kind, amountMinor),
		Note:         req.Note,
		Counterparty: req.Counterparty,
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建交易失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", tx)
}

// CreateTransfer 创建账户间转账
// @Summary 创建转账
// @Description 在两个账户间转账：一条转出（负数）、一条转入（正数），共享转账组 ID，在单个数据库事务中写入
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransferRequest true "转账信息"
// @Success 200 {object} Response "创建成功，返回 transfer_group_id"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transfers [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		BadRequestWithFields(c, "参数错误", map[string]string{"date": "日期格式错误，应为: 2006-01-02"})
		return
	}

	amountMinor, err := service.ParseAmountMinor(req.Amount)
	if err != nil {
		BadRequestWithFields(c, "参数错误", map[string]string{"amount": err.Error()})
		return
	}

	// 同账户校验在任何数据库操作之前，错误挂在转入账户字段上
	if req.FromAccountID == req.ToAccountID {
		BadRequestWithFields(c, "参数错误", map[string]string{"to_account_id": "转出和转入账户不能相同"})
		return
	}

	groupID, err := service.CreateTransfer(database.DB, userID, service.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		AmountMinor:   amountMinor,
		Date:          date,
		Note:          req.Note,
	})
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			BadRequest(c, "账户不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建转账失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", gin.H{"transfer_group_id": groupID})
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 获取当前用户的交易列表（联查账户/分类名称），支持按类型、账户、分类、日期范围和关键字筛选，支持分页
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Param kind query string false "交易类型" Enums(income,expense,transfer)
// @Param account_id query int false "账户筛选"
// @Param category_id query int false "分类筛选"
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Param keyword query string false "备注/交易对象关键字"
// @Success 200 {object} Response{data=PageResponse{list=[]models.TransactionRow}} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	// 默认分页参数
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
	if req.PageSize > 500 {
		req.PageSize = 500
	}

	query := database.DB.Table("transactions").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)

	if req.Kind != "" {
		if !models.IsValidKind(req.Kind) {
			BadRequest(c, "无效的交易类型")
			return
		}
		query = query.Where("transactions.kind = ?", req.Kind)
	}
	if req.AccountID > 0 {
		query = query.Where("transactions.account_id = ?", req.AccountID)
	}
	if req.CategoryID > 0 {
		query = query.Where("transactions.category_id = ?", req.CategoryID)
	}
	if req.StartDate != "" {
		if t, err := parseDate(req.StartDate); err == nil {
			query = query.Where("transactions.date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := parseDate(req.EndDate); err == nil {
			query = query.Where("transactions.date <= ?", t)
		}
	}
	if req.Keyword != "" {
		kw := "%" + escapeLikeValue(req.Keyword) + "%"
		query = query.Where("transactions.note LIKE ? OR transactions.counterparty LIKE ?", kw, kw)
	}

	// 获取总数
	var total int64
	query.Count(&total)

	// 获取列表
	var rows []models.TransactionRow
	offset := (req.Page - 1) * req.PageSize
	err := query.
		Select("transactions.id, transactions.kind, transactions.date, transactions.amount_minor, transactions.note, transactions.counterparty, transactions.transfer_group_id, transactions.account_id, accounts.name AS account_name, accounts.currency, transactions.category_id, categories.name AS category_name, transactions.created_at").
		Order("transactions.date DESC, transactions.id DESC").
		Offset(offset).Limit(req.PageSize).
		Scan(&rows).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     rows,
	})
}

// Get 获取单条交易记录
// @Summary 获取单条交易记录
// @Description 根据ID获取交易记录详情
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	Success(c, tx)
}

// Update 更新收支记录
// @Summary 更新收支记录
// @Description 更新指定的收入/支出记录。转账记录不支持编辑，请删除后重新创建
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Param request body UpdateTransactionRequest true "更新的交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var tx models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}
	if tx.Kind == models.KindTransfer {
		BadRequest(c, "转账记录不支持编辑，请删除后重新创建")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updates := make(map[string]interface{})

	// 类型或金额任一变化都要重新归一化符号
	kind := tx.Kind
	if req.Kind != "" {
		kind = req.Kind
		updates["kind"] = kind
	}
	amountMinor := tx.AmountMinor
	if req.Amount != "" {
		amountMinor, err = service.ParseAmountMinor(req.Amount)
		if err != nil {
			BadRequestWithFields(c, "参数错误", map[string]string{"amount": err.Error()})
			return
		}
	}
	if req.Kind != "" || req.Amount != "" {
		updates["amount_minor"] = service.NormalizeAmount(kind, amountMinor)
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			BadRequestWithFields(c, "参数错误", map[string]string{"date": "日期格式错误，应为: 2006-01-02"})
			return
		}
		updates["date"] = date
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			updates["category_id"] = nil
		} else {
			var category models.Category
			if err := database.DB.Where("id = ? AND user_id = ?", *req.CategoryID, userID).First(&category).Error; err != nil {
				BadRequestWithFields(c, "参数错误", map[string]string{"category_id": "分类不存在"})
				return
			}
			updates["category_id"] = *req.CategoryID
		}
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Counterparty != nil {
		updates["counterparty"] = *req.Counterparty
	}

	if len(updates) == 0 {
		SuccessWithMessage(c, "无需更新", tx)
		return
	}

	if err := database.DB.Model(&tx).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	// 重新获取更新后的记录
	database.DB.First(&tx, tx.ID)
	SuccessWithMessage(c, "更新成功", tx)
}

// Delete 删除交易记录
// @Summary 删除交易记录
// @Description 删除指定交易。携带 transfer_group_id 时删除该转账组的全部记录（两腿一起消失）。未命中任何行不视为错误
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Param transfer_group_id query string false "转账组ID，删除转账时必传"
// @Success 200 {object} Response "删除成功，返回删除行数"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	groupID := c.Query("transfer_group_id")
	n, err := service.DeleteTransaction(database.DB, userID, uint(id), groupID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, fmt.Sprintf("已删除 %d 条记录", n), gin.H{"deleted": n})
}
