package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_GetIncomeExpenseSummary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	defer txTestConfig()()

	// 收入汇总
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_minor\\), 0\\) FROM `transactions`").
		WithArgs(uint(1), "income").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(500000)))
	// 支出汇总：库里是负数，取 -SUM 返回正数
	mock.ExpectQuery("SELECT COALESCE\\(-SUM\\(amount_minor\\), 0\\) FROM `transactions`").
		WithArgs(uint(1), "expense").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(123456)))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewTransactionHandler()
	router.GET("/statistics/summary", setUserIDMiddleware(1), h.GetIncomeExpenseSummary)

	req := httptest.NewRequest("GET", "/statistics/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(500000), data["total_income_minor"])
	assert.Equal(t, float64(123456), data["total_expense_minor"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_GetCategoryStatistics(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	defer txTestConfig()()

	mock.ExpectQuery("SELECT transactions\\.category_id.* FROM `transactions`").
		WithArgs(uint(1), "expense").
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "category_name", "total_minor", "count"}).
			AddRow(3, "餐饮", int64(80000), int64(12)).
			AddRow(nil, "未分类", int64(4321), int64(2)))

	router := gin.New()
	h := NewTransactionHandler()
	router.GET("/statistics/categories", setUserIDMiddleware(1), h.GetCategoryStatistics)

	req := httptest.NewRequest("GET", "/statistics/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	list := resp["data"].([]interface{})
	require.Len(t, list, 2)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "餐饮", first["category_name"])
	assert.Equal(t, float64(80000), first["total_minor"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_GetCategoryStatistics_InvalidKind(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()
	defer txTestConfig()()

	router := gin.New()
	h := NewTransactionHandler()
	router.GET("/statistics/categories", setUserIDMiddleware(1), h.GetCategoryStatistics)

	req := httptest.NewRequest("GET", "/statistics/categories?kind=transfer", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
