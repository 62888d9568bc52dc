package api

import (
	"strings"

	"ledger/database"
	"ledger/middleware"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler 资金账户处理器
type AccountHandler struct{}

// NewAccountHandler 创建资金账户处理器
func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// CreateAccountRequest 创建账户请求
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=80" example:"招行储蓄卡"`
	Currency string `json:"currency" binding:"required,len=3" example:"USD"`
	Owner    string `json:"owner" binding:"required,min=1,max=80" example:"自己"`
	Type     string `json:"type" binding:"required" example:"bank"`
}

// AccountRow 账户列表行，余额由交易表汇总得出（不落库）
type AccountRow struct {
	models.Account
	BalanceMinor   int64  `json:"balance_minor"`
	BalanceDisplay string `json:"balance_display" gorm:"-"`
}

// Create 创建资金账户
// @Summary 创建资金账户
// @Description 创建一个新的资金账户，币种创建后不可修改
// @Tags 账户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "账户信息"
// @Success 200 {object} Response{data=models.Account} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Name == "" {
		BadRequestWithFields(c, "参数错误", map[string]string{"name": "名称不能为空"})
		return
	}
	if req.Owner == "" {
		BadRequestWithFields(c, "参数错误", map[string]string{"owner": "持有人不能为空"})
		return
	}
	if !models.IsValidCurrency(req.Currency) {
		BadRequestWithFields(c, "参数错误", map[string]string{"currency": "不支持的币种"})
		return
	}
	if !models.IsValidAccountType(req.Type) {
		BadRequestWithFields(c, "参数错误", map[string]string{"type": "无效的账户类型"})
		return
	}

	account := models.Account{
		UserID:   userID,
		Name:     req.Name,
		Currency: req.Currency,
		Owner:    req.Owner,
		Type:     req.Type,
	}

	if err := database.DB.Create(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建账户失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", account)
}

// List 获取账户列表（含派生余额）
// @Summary 获取账户列表
// @Description 获取当前用户的全部账户，余额按交易表实时汇总
// @Tags 账户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]AccountRow} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var rows []AccountRow
	err := database.DB.Model(&models.Account{}).
		Select("accounts.*, COALESCE(SUM(transactions.amount_minor), 0) AS balance_minor").
		Joins("LEFT JOIN transactions ON transactions.account_id = accounts.id").
		Where("accounts.user_id = ?", userID).
		Group("accounts.id").
		Order("accounts.name ASC").
		Scan(&rows).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	for i := range rows {
		rows[i].BalanceDisplay = service.FormatAmountMinor(rows[i].BalanceMinor, rows[i].Currency)
	}

	Success(c, rows)
}

// GetMeta 获取账户表单元数据
// @Summary 获取账户元数据
// @Description 获取支持的币种和账户类型列表，用于表单下拉选项
// @Tags 账户
// @Produce json
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/accounts/meta [get]
func (h *AccountHandler) GetMeta(c *gin.Context) {
	Success(c, gin.H{
		"currencies": models.GetCurrencies(),
		"types":      models.GetAccountTypes(),
	})
}
