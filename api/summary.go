package api

import (
	"time"

	"ledger/database"
	"ledger/middleware"
	"ledger/models"

	"github.com/gin-gonic/gin"
)

// IncomeExpenseSummaryResponse 收入/支出汇总返回（最小货币单位）
// 支出在库里是负数，这里取反后以正数返回
type IncomeExpenseSummaryResponse struct {
	TotalIncomeMinor  int64 `json:"total_income_minor" example:"500000"`  // 收入总和
	TotalExpenseMinor int64 `json:"total_expense_minor" example:"123456"` // 支出总和（正数）
}

// CategoryStat 按分类统计行
type CategoryStat struct {
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name"`
	TotalMinor   int64  `json:"total_minor"`
	Count        int64  `json:"count"`
}

// summaryRange 解析统计的时间范围参数，容错：格式错误的日期按未传处理
func summaryRange(c *gin.Context) (start, end *time.Time) {
	if s := c.Query("start_date"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			start = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			end = &t
		}
	}
	return
}

// GetIncomeExpenseSummary 获取收入/支出汇总
// @Summary 获取收入/支出汇总
// @Description 按日期范围统计当前用户的收入总和与支出总和，转账不计入。不传 start_date/end_date 则统计全部时间
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=IncomeExpenseSummaryResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/summary [get]
func (h *TransactionHandler) GetIncomeExpenseSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end := summaryRange(c)

	incomeQ := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND kind = ?", userID, models.KindIncome)
	// 支出落库为负数，取 -SUM 得到正数
	expenseQ := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND kind = ?", userID, models.KindExpense)

	if start != nil {
		incomeQ = incomeQ.Where("date >= ?", *start)
		expenseQ = expenseQ.Where("date >= ?", *start)
	}
	if end != nil {
		incomeQ = incomeQ.Where("date <= ?", *end)
		expenseQ = expenseQ.Where("date <= ?", *end)
	}

	var totalIncome int64
	var totalExpense int64
	incomeQ.Select("COALESCE(SUM(amount_minor), 0)").Scan(&totalIncome)
	expenseQ.Select("COALESCE(-SUM(amount_minor), 0)").Scan(&totalExpense)

	Success(c, IncomeExpenseSummaryResponse{
		TotalIncomeMinor:  totalIncome,
		TotalExpenseMinor: totalExpense,
	})
}

// GetCategoryStatistics 获取分类统计
// @Summary 获取分类统计
// @Description 按日期范围统计当前用户各分类的金额与笔数，转账不计入。适合绘制饼图
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param kind query string false "统计方向" Enums(income,expense) default(expense)
// @Param start_date query string false "开始日期 (2024-01-01)"
// @Param end_date query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=[]CategoryStat} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/categories [get]
func (h *TransactionHandler) GetCategoryStatistics(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end := summaryRange(c)

	kind := c.Query("kind")
	if kind == "" {
		kind = models.KindExpense
	}
	if !models.IsValidCategoryKind(kind) {
		BadRequest(c, "无效的统计方向")
		return
	}

	// 支出行金额为负，统一取绝对值方向汇总
	sumExpr := "SUM(transactions.amount_minor) as total_minor"
	if kind == models.KindExpense {
		sumExpr = "-SUM(transactions.amount_minor) as total_minor"
	}

	query := database.DB.Table("transactions").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ?", userID, kind)
	if start != nil {
		query = query.Where("transactions.date >= ?", *start)
	}
	if end != nil {
		query = query.Where("transactions.date <= ?", *end)
	}

	var stats []CategoryStat
	err := query.
		Select("transactions.category_id, COALESCE(categories.name, '未分类') as category_name, " + sumExpr + ", COUNT(*) as count").
		Group("transactions.category_id, categories.name").
		Order("total_minor DESC").
		Scan(&stats).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, stats)
}
