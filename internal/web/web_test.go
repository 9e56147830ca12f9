package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNl2br(t *testing.T) {
	assert.Equal(t, "첫 줄<br>둘째 줄", string(nl2br("첫 줄\r\n둘째 줄")))
	assert.NotContains(t, string(nl2br("<script>alert(1)</script>hi")), "<script>")
	assert.Equal(t, "a &lt; b", string(nl2br("a < b")))
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "yes"} {
		assert.True(t, truthy(v), v)
	}
	for _, v := range []string{"", "false", "0", "off", "OFF"} {
		assert.False(t, truthy(v), v)
	}
}

func TestPageTemplates_SurveyForm(t *testing.T) {
	tmpl := PageTemplates()

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "survey_form.html", map[string]interface{}{
		"Sections": model.SurveySections,
		"Values": map[string]string{
			"store_name":       "카페 <모카>",
			"business_type":    "cafe",
			"naver_registered": "on",
		},
		"Errors": map[string]string{"owner_name": "필수 항목입니다."},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `value="카페 &lt;모카&gt;"`)
	assert.Contains(t, html, `<option value="cafe" selected>카페</option>`)
	assert.Contains(t, html, `name="naver_registered" value="on" checked`)
	assert.Contains(t, html, "필수 항목입니다.")
	assert.Contains(t, html, "입력 내용을 다시 확인해 주세요.")
}

func TestPageTemplates_StaticPages(t *testing.T) {
	tmpl := PageTemplates()

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "thank_you.html", nil))
	assert.Contains(t, buf.String(), "성공적으로 제출")

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "error.html", map[string]string{"Message": "잠시 후 다시 시도해 주세요"}))
	assert.Contains(t, buf.String(), "잠시 후 다시 시도해 주세요")
}

func TestMailTemplates_Survey(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	tmpl := MailTemplates(kst)

	survey := &model.SurveyResponse{
		StoreName:          "카페 모카",
		OwnerName:          "김철수",
		BusinessType:       model.BusinessCafe,
		NaverRegistered:    true,
		NaverPhotosQuality: 4,
		MainConcerns:       "리뷰 부족\n사진 부족",
		CreatedAt:          time.Date(2024, 5, 1, 1, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "survey.html", map[string]interface{}{
		"Survey":   survey,
		"Sections": model.SurveySections,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "카페 모카")
	assert.Contains(t, html, "2024-05-01 10:30")
	assert.Contains(t, html, "네이버 플레이스 등록 여부")
	assert.Contains(t, html, "✔ 예")
	assert.Contains(t, html, "✘ 아니오")
	assert.Contains(t, html, "리뷰 부족<br>사진 부족")
}

func TestMailTemplates_Digest(t *testing.T) {
	tmpl := MailTemplates(time.UTC)

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "digest.html", map[string]interface{}{
		"Day": "2024-05-01",
		"Surveys": []model.SurveyResponse{
			{StoreName: "가게1", BusinessType: model.BusinessOther, BusinessTypeOther: "꽃집"},
			{StoreName: "가게2", BusinessType: model.BusinessBar},
		},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "총 2건")
	assert.Contains(t, html, "기타 (꽃집)")
	assert.Contains(t, html, "주점")
}
