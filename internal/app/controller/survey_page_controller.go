package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/app/service"
	"github.com/ikkim/marketing-survey/internal/middleware"
)

const thankYouPath = "/thank-you/"

// SurveyPageController 공개 설문 화면 (서버 렌더링)
type SurveyPageController struct {
	surveyService service.SurveyService
}

func NewSurveyPageController(surveyService service.SurveyService) *SurveyPageController {
	return &SurveyPageController{
		surveyService: surveyService,
	}
}

func (ctrl *SurveyPageController) renderForm(c *gin.Context, status int, values, fieldErrors map[string]string) {
	if values == nil {
		values = map[string]string{}
	}
	c.HTML(status, "survey_form.html", gin.H{
		"Sections": model.SurveySections,
		"Values":   values,
		"Errors":   fieldErrors,
	})
}

func renderErrorPage(c *gin.Context, status int, title, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   title,
		"Message": message,
	})
}

// ShowForm 빈 설문 폼 렌더링
// GET /
func (ctrl *SurveyPageController) ShowForm(c *gin.Context) {
	ctrl.renderForm(c, http.StatusOK, nil, nil)
}

// Submit 설문 폼 제출 처리
// POST /
func (ctrl *SurveyPageController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	values, err := formValues(c)
	if err != nil {
		log.Warn("Failed to parse survey form", map[string]interface{}{
			"error": err.Error(),
		})
		renderErrorPage(c, http.StatusBadRequest, "잘못된 요청", "설문 내용을 읽을 수 없습니다. 다시 시도해주세요.")
		return
	}

	result, err := ctrl.surveyService.Submit(c.Request.Context(), values)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			ctrl.renderForm(c, http.StatusOK, values, verr.Fields)
			return
		}

		log.Error("Survey submission failed", err)
		renderErrorPage(c, http.StatusInternalServerError, "",
			"설문 저장 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요.")
		return
	}

	log.Info("Survey submitted via form", map[string]interface{}{
		"survey_id": result.Survey.ID,
		"state":     result.State,
	})
	if result.State == service.StateNotifyFailed {
		c.Redirect(http.StatusFound, thankYouPath+"?mail=failed")
		return
	}
	c.Redirect(http.StatusFound, thankYouPath)
}

// ThankYou 제출 완료 화면
// GET /thank-you/
func (ctrl *SurveyPageController) ThankYou(c *gin.Context) {
	c.HTML(http.StatusOK, "thank_you.html", gin.H{
		"MailFailed": c.Query("mail") == "failed",
	})
}

// RateLimited 제출 횟수 초과 화면 (429)
func (ctrl *SurveyPageController) RateLimited(c *gin.Context) {
	renderErrorPage(c, http.StatusTooManyRequests, "잠시 후 다시 시도해주세요",
		"짧은 시간에 너무 많은 설문이 제출되었습니다.")
}
