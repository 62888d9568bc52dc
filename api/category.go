package api

import (
	"errors"
	"strings"

	"ledger/database"
	"ledger/middleware"
	"ledger/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 交易分类处理器
type CategoryHandler struct{}

// NewCategoryHandler 创建交易分类处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=80" example:"餐饮"`
	Kind string `json:"kind" binding:"omitempty,oneof=income expense" example:"expense"` // 缺省为 expense
}

// Create 创建交易分类
// @Summary 创建交易分类
// @Description 创建新的交易分类，名称在当前用户内唯一，不同用户可重名
// @Tags 分类
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "分类信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "参数错误或分类已存在"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequestWithFields(c, "参数错误", map[string]string{"name": "名称不能为空"})
		return
	}
	if req.Kind == "" {
		req.Kind = models.CategoryKindExpense
	}

	// 同一用户内名称唯一（数据库有复合唯一索引兜底）
	var existing models.Category
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "分类已存在")
		return
	}

	category := models.Category{
		UserID: userID,
		Name:   req.Name,
		Kind:   req.Kind,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		// 并发写入时唯一索引冲突：转换为友好提示而不是原始数据库错误
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, "分类已存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建分类失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", category)
}

// List 获取分类列表
// @Summary 获取分类列表
// @Description 获取当前用户的全部分类，可按方向（income/expense）筛选
// @Tags 分类
// @Produce json
// @Security BearerAuth
// @Param kind query string false "分类方向" Enums(income,expense)
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if kind := c.Query("kind"); kind != "" {
		if !models.IsValidCategoryKind(kind) {
			BadRequest(c, "无效的分类方向")
			return
		}
		query = query.Where("kind = ?", kind)
	}

	var list []models.Category
	if err := query.Order("name ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, list)
}
