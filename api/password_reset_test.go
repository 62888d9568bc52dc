package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetHandler_RequestReset_UnknownEmail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 用户不存在：出于安全考虑仍返回成功
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewPasswordResetHandler(cfg)
	router.POST("/password/request-reset", h.RequestPasswordReset)

	body := `{"email":"nobody@example.com"}`
	req := httptest.NewRequest("POST", "/password/request-reset", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "如果该邮箱已注册，您将收到密码重置邮件", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetHandler_VerifyToken_Expired(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WithArgs("expiredtoken").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "email", "expires_at", "used", "created_at", "deleted_at"}).
			AddRow(1, 1, "expiredtoken", "u@x.com", time.Now().Add(-time.Hour), false, time.Now(), nil))

	router := gin.New()
	h := NewPasswordResetHandler(cfg)
	router.GET("/password/verify-token", h.VerifyResetToken)

	req := httptest.NewRequest("GET", "/password/verify-token?token=expiredtoken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "令牌已过期，请重新申请", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 查找有效令牌
	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WithArgs("goodtoken").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "email", "expires_at", "used", "created_at", "deleted_at"}).
			AddRow(1, 1, "goodtoken", "u@x.com", time.Now().Add(20*time.Minute), false, time.Now(), nil))

	// 更新密码
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 令牌作废
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `password_resets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	h := NewPasswordResetHandler(cfg)
	router.POST("/password/reset", h.ResetPassword)

	body := `{"token":"goodtoken","new_password":"newpassword123"}`
	req := httptest.NewRequest("POST", "/password/reset", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "密码重置成功，请使用新密码登录", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetHandler_ResetPassword_UsedToken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `password_resets`").
		WithArgs("usedtoken").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "email", "expires_at", "used", "created_at", "deleted_at"}).
			AddRow(1, 1, "usedtoken", "u@x.com", time.Now().Add(20*time.Minute), true, time.Now(), nil))

	router := gin.New()
	h := NewPasswordResetHandler(cfg)
	router.POST("/password/reset", h.ResetPassword)

	body := `{"token":"usedtoken","new_password":"newpassword123"}`
	req := httptest.NewRequest("POST", "/password/reset", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
