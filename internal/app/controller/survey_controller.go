package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/ikkim/marketing-survey/internal/app/service"
	apperrors "github.com/ikkim/marketing-survey/internal/errors"
	"github.com/ikkim/marketing-survey/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	dateLayout      = "2006-01-02"
)

var exportContentTypes = map[string]string{
	service.ExportFormatCSV:  "text/csv; charset=utf-8",
	service.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type SurveyController struct {
	surveyService service.SurveyService
	exportService service.ExportService
	loc           *time.Location
}

func NewSurveyController(surveyService service.SurveyService, exportService service.ExportService, loc *time.Location) *SurveyController {
	if loc == nil {
		loc = time.UTC
	}
	return &SurveyController{
		surveyService: surveyService,
		exportService: exportService,
		loc:           loc,
	}
}

// Submit JSON 또는 form 형식의 설문 제출
// POST /api/v1/surveys
func (ctrl *SurveyController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	values, err := requestValues(c)
	if err != nil {
		log.Warn("Invalid survey request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := ctrl.surveyService.Submit(c.Request.Context(), values)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			apperrors.RespondWithValidationError(c, verr.Fields)
			return
		}
		log.Error("Survey submission failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalDatabaseError,
			"설문 저장 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           result.Survey.ID,
		"state":        result.State,
		"notification": result.Notification.Outcome,
	})
}

// parseFilter reads list/export filters. to is an inclusive calendar day.
func (ctrl *SurveyController) parseFilter(c *gin.Context) (repository.SurveyFilter, map[string]string) {
	filter := repository.SurveyFilter{
		BusinessType: model.BusinessType(c.Query("business_type")),
		StoreSize:    model.StoreSize(c.Query("store_size")),
		LocationType: model.LocationType(c.Query("location_type")),
		Search:       strings.TrimSpace(c.Query("q")),
	}
	errs := make(map[string]string)

	for _, name := range []string{"naver_registered", "google_registered"} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs[name] = "true 또는 false를 입력해주세요"
			continue
		}
		if name == "naver_registered" {
			filter.NaverRegistered = &b
		} else {
			filter.GoogleRegistered = &b
		}
	}

	if raw := c.Query("from"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, ctrl.loc)
		if err != nil {
			errs["from"] = "날짜 형식은 YYYY-MM-DD 입니다"
		} else {
			filter.From = &day
		}
	}
	if raw := c.Query("to"); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, ctrl.loc)
		if err != nil {
			errs["to"] = "날짜 형식은 YYYY-MM-DD 입니다"
		} else {
			end := day.AddDate(0, 0, 1)
			filter.To = &end
		}
	}

	return filter, errs
}

// List 설문 응답 목록 (관리자)
// GET /admin/api/surveys
func (ctrl *SurveyController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, errs := ctrl.parseFilter(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		errs["page"] = "1 이상의 숫자를 입력해주세요"
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		errs["page_size"] = "1 이상의 숫자를 입력해주세요"
	}
	if len(errs) > 0 {
		apperrors.RespondWithValidationError(c, errs)
		return
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	surveys, total, err := ctrl.surveyService.List(c.Request.Context(), filter)
	if err != nil {
		log.Error("Failed to list surveys", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list surveys")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"surveys":   surveys,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get 설문 응답 상세
// GET /admin/api/surveys/:id
func (ctrl *SurveyController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return
	}

	survey, err := ctrl.surveyService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			apperrors.NotFound(c, apperrors.SurveyNotFound, "설문 응답을 찾을 수 없습니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to get survey", err, map[string]interface{}{
			"survey_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get survey")
		return
	}

	c.JSON(http.StatusOK, gin.H{"survey": survey})
}

// Update 설문 응답 수정 (전체 필드 재검증)
// PUT /admin/api/surveys/:id
func (ctrl *SurveyController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return
	}

	values, err := requestValues(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "요청 형식이 올바르지 않습니다")
		return
	}

	survey, err := ctrl.surveyService.Update(c.Request.Context(), id, values)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			apperrors.RespondWithValidationError(c, verr.Fields)
		case errors.Is(err, service.ErrSurveyNotFound):
			apperrors.NotFound(c, apperrors.SurveyNotFound, "설문 응답을 찾을 수 없습니다")
		default:
			log.Error("Failed to update survey", err, map[string]interface{}{"survey_id": id})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update survey")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"survey": survey})
}

// Delete 설문 응답 삭제
// DELETE /admin/api/surveys/:id
func (ctrl *SurveyController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return
	}

	if err := ctrl.surveyService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			apperrors.NotFound(c, apperrors.SurveyNotFound, "설문 응답을 찾을 수 없습니다")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete survey", err, map[string]interface{}{
			"survey_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete survey")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "설문 응답이 삭제되었습니다"})
}

// Export 필터된 설문 응답 파일 다운로드
// GET /admin/api/surveys/export?format=csv|xlsx
func (ctrl *SurveyController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	format := strings.ToLower(c.DefaultQuery("format", service.ExportFormatCSV))
	contentType, ok := exportContentTypes[format]
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "지원하지 않는 내보내기 형식입니다 (csv, xlsx)")
		return
	}

	filter, errs := ctrl.parseFilter(c)
	if len(errs) > 0 {
		apperrors.RespondWithValidationError(c, errs)
		return
	}

	export := ctrl.exportService.ExportCSV
	if format == service.ExportFormatXLSX {
		export = ctrl.exportService.ExportXLSX
	}

	buf, filename, err := export(c.Request.Context(), filter)
	if err != nil {
		log.Error("Failed to export surveys", err, map[string]interface{}{"format": format})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.SurveyExportFail,
			"내보내기 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요")
		return
	}

	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func contentDisposition(filename string) string {
	return `attachment; filename="` + filename + `"; filename*=UTF-8''` + url.PathEscape(filename)
}
