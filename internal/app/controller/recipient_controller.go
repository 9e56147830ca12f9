package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/internal/middleware"
)

type RecipientController struct {
	recipientService service.RecipientService
}

func NewRecipientController(recipientService service.RecipientService) *RecipientController {
	return &RecipientController{
		recipientService: recipientService,
	}
}

type RecipientStatusRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func (ctrl *RecipientController) respondServiceError(c *gin.Context, err error, context string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrRecipientExists):
		apperrors.Conflict(c, apperrors.RecipientEmailExists, "이미 등록된 수신 이메일입니다")
	case errors.Is(err, service.ErrRecipientNotFound):
		apperrors.NotFound(c, apperrors.RecipientNotFound, "수신자를 찾을 수 없습니다")
	default:
		middleware.GetLoggerFromContext(c).Error("Recipient operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List 수신자 목록
// GET /admin/api/recipients?active=true&q=
func (ctrl *RecipientController) List(c *gin.Context) {
	filter := repository.RecipientFilter{Search: c.Query("q")}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"active": "true 또는 false를 입력해주세요"})
			return
		}
		filter.Active = &active
	}

	recipients, err := ctrl.recipientService.List(c.Request.Context(), filter)
	if err != nil {
		ctrl.respondServiceError(c, err, "list recipients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipients": recipients,
		"count":      len(recipients),
	})
}

// Create 수신자 추가
// POST /admin/api/recipients
func (ctrl *RecipientController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.RecipientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid recipient request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	recipient, err := ctrl.recipientService.Create(c.Request.Context(), req)
	if err != nil {
		ctrl.respondServiceError(c, err, "create recipient")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipient": recipient})
}

// Update 수신자 수정
// PUT /admin/api/recipients/:id
func (ctrl *RecipientController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return
	}

	var req service.RecipientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	recipient, err := ctrl.recipientService.Update(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondServiceError(c, err, "update recipient")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipient": recipient})
}

// Delete 수신자 삭제
// DELETE /admin/api/recipients/:id
func (ctrl *RecipientController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return
	}

	if err := ctrl.recipientService.Delete(c.Request.Context(), id); err != nil {
		ctrl.respondServiceError(c, err, "delete recipient")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "수신자가 삭제되었습니다"})
}

// Activate 선택한 수신자 활성화
// POST /admin/api/recipients/activate
func (ctrl *RecipientController) Activate(c *gin.Context) {
	ctrl.setActive(c, true)
}

// Deactivate 선택한 수신자 비활성화
// POST /admin/api/recipients/deactivate
func (ctrl *RecipientController) Deactivate(c *gin.Context) {
	ctrl.setActive(c, false)
}

func (ctrl *RecipientController) setActive(c *gin.Context, active bool) {
	log := middleware.GetLoggerFromContext(c)

	var req RecipientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "선택된 수신자가 없습니다")
		return
	}

	updated, err := ctrl.recipientService.SetActive(c.Request.Context(), req.IDs, active)
	if err != nil {
		ctrl.respondServiceError(c, err, "update recipient")
		return
	}

	log.Info("Recipients status changed", map[string]interface{}{
		"is_active": active,
		"selected":  len(req.IDs),
		"updated":   updated,
	})
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
