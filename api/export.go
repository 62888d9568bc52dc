package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ledger/database"
	"ledger/middleware"
	"ledger/models"
	"ledger/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// kindLabel 交易类型的中文展示
func kindLabel(kind string) string {
	switch kind {
	case models.KindIncome:
		return "收入"
	case models.KindExpense:
		return "支出"
	case models.KindTransfer:
		return "转账"
	}
	return kind
}

// exportRange 解析并校验导出的日期范围参数
func exportRange(c *gin.Context) (start, end time.Time, ok bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return
	}
	end, err = time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return
	}
	return start, end, true
}

// fetchExportRows 查询日期范围内的交易（联查账户/分类名称）
func fetchExportRows(userID uint, start, end time.Time) ([]models.TransactionRow, error) {
	var rows []models.TransactionRow
	err := database.DB.Table("transactions").
		Select("transactions.id, transactions.kind, transactions.date, transactions.amount_minor, transactions.note, transactions.counterparty, transactions.transfer_group_id, transactions.account_id, accounts.name AS account_name, accounts.currency, transactions.category_id, categories.name AS category_name, transactions.created_at").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.date >= ? AND transactions.date <= ?", userID, start, end).
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录
// @Description 根据日期范围导出交易记录为 CSV 文件（带 BOM，Excel 可直接打开）
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	rows, err := fetchExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 生成 CSV
	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "日期", "类型", "账户", "分类", "金额", "币种", "交易对象", "备注"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, r := range rows {
		categoryName := ""
		if r.CategoryName != nil {
			categoryName = *r.CategoryName
		}
		row := []string{
			fmt.Sprintf("%d", r.ID),
			r.Date.Format("2006-01-02"),
			kindLabel(r.Kind),
			r.AccountName,
			categoryName,
			service.FormatAmountMinor(r.AmountMinor, r.Currency),
			r.Currency,
			r.Counterparty,
			r.Note,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出交易记录为 JSON
// @Summary 导出交易记录为 JSON
// @Description 根据日期范围导出交易记录为 JSON 格式，附带收入/支出汇总
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {object} Response "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	rows, err := fetchExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 汇总（转账两腿相抵，不计入收支）
	var totalIncome, totalExpense int64
	for _, r := range rows {
		switch r.Kind {
		case models.KindIncome:
			totalIncome += r.AmountMinor
		case models.KindExpense:
			totalExpense -= r.AmountMinor
		}
	}

	Success(c, gin.H{
		"start_date":          c.Query("start_date"),
		"end_date":            c.Query("end_date"),
		"total_count":         len(rows),
		"total_income_minor":  totalIncome,
		"total_expense_minor": totalExpense,
		"transactions":        rows,
	})
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 根据日期范围导出交易记录为 Excel 文件，含样式和汇总行
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2024-01-01)"
// @Param end_date query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	start, end, ok := exportRange(c)
	if !ok {
		return
	}

	rows, err := fetchExportRows(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	// 创建 Excel 文件
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易记录"
	f.SetSheetName("Sheet1", sheetName)

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 16)
	f.SetColWidth(sheetName, "G", "G", 8)
	f.SetColWidth(sheetName, "H", "H", 18)
	f.SetColWidth(sheetName, "I", "I", 30)

	// 写入表头
	headers := []string{"ID", "日期", "类型", "账户", "分类", "金额", "币种", "交易对象", "备注"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	var totalIncome, totalExpense int64
	for i, r := range rows {
		row := i + 2
		categoryName := ""
		if r.CategoryName != nil {
			categoryName = *r.CategoryName
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), kindLabel(r.Kind))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), categoryName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), service.FormatAmountMinor(r.AmountMinor, r.Currency))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Currency)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.Counterparty)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.Note)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), dataStyle)

		switch r.Kind {
		case models.KindIncome:
			totalIncome += r.AmountMinor
		case models.KindExpense:
			totalExpense -= r.AmountMinor
		}
	}

	// 汇总行
	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow),
		fmt.Sprintf("收入 %d / 支出 %d（最小货币单位）", totalIncome, totalExpense))
	f.MergeCell(sheetName, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("G%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(rows)))
	f.MergeCell(sheetName, fmt.Sprintf("H%d", summaryRow), fmt.Sprintf("I%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("交易记录_%s_%s.xlsx", c.Query("start_date"), c.Query("end_date"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
