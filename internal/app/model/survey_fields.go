package model

import (
	"fmt"
	"reflect"
)

// FieldKind 입력 필드 종류
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindNumber   FieldKind = "number"
)

// FieldSpec 설문 필드 정의. Name은 SurveyResponse의 form 태그와 일치한다.
type FieldSpec struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	MaxLength   int
	Min         *int
	Max         *int
	Choices     []Choice
	Placeholder string
}

// FieldSection 설문 화면의 구역
type FieldSection struct {
	Title  string
	Fields []FieldSpec
}

func intPtr(n int) *int { return &n }

// SurveySections 설문 구역과 필드 (화면, 메일, 검증이 공유)
var SurveySections = []FieldSection{
	{
		Title: "기본 정보",
		Fields: []FieldSpec{
			{Name: "store_name", Label: "매장명", Kind: KindText, Required: true, MaxLength: 100},
			{Name: "owner_name", Label: "대표자명", Kind: KindText, Required: true, MaxLength: 50},
			{Name: "phone_number", Label: "연락처", Kind: KindTel, Required: true, MaxLength: 20, Placeholder: "010-0000-0000"},
			{Name: "email", Label: "이메일", Kind: KindEmail, Required: true, MaxLength: 254, Placeholder: "example@email.com"},
		},
	},
	{
		Title: "매장 정보",
		Fields: []FieldSpec{
			{Name: "business_type", Label: "업종", Kind: KindSelect, Required: true, Choices: BusinessTypeChoices},
			{Name: "business_type_other", Label: "기타 업종", Kind: KindText, MaxLength: 50},
			{Name: "store_size", Label: "매장 규모", Kind: KindSelect, Required: true, Choices: StoreSizeChoices},
			{Name: "location_type", Label: "상권 위치", Kind: KindSelect, Required: true, Choices: LocationTypeChoices},
			{Name: "location_detail", Label: "상세 위치", Kind: KindText, MaxLength: 200},
		},
	},
	{
		Title: "네이버 플레이스 마케팅 현황",
		Fields: []FieldSpec{
			{Name: "naver_registered", Label: "네이버 플레이스 등록 여부", Kind: KindCheckbox},
			{Name: "naver_photos_quality", Label: "사진 매력도 (1-5점)", Kind: KindSelect, Required: true, Choices: PhotoQualityChoices, Min: intPtr(1), Max: intPtr(5)},
			{Name: "naver_reservation", Label: "예약 기능 활용", Kind: KindCheckbox},
			{Name: "naver_directions", Label: "찾아오는 길 상세 설명", Kind: KindCheckbox},
			{Name: "naver_marketing_msg", Label: "무료 마케팅 메시지 활용", Kind: KindCheckbox},
			{Name: "naver_keywords", Label: "대표 키워드 SEO 최적화", Kind: KindCheckbox},
			{Name: "naver_video_clip", Label: "클립 영상 활용", Kind: KindCheckbox},
			{Name: "naver_statistics", Label: "통계 확인 및 분석", Kind: KindCheckbox},
			{Name: "naver_news_update", Label: "소식 업데이트 주기", Kind: KindSelect, Required: true, Choices: NewsUpdateChoices},
		},
	},
	{
		Title: "인스타그램 마케팅 현황",
		Fields: []FieldSpec{
			{Name: "instagram_searchable", Label: "인스타 검색 시 노출", Kind: KindCheckbox},
			{Name: "instagram_video_count", Label: "등재된 영상 개수", Kind: KindNumber, Min: intPtr(0)},
			{Name: "instagram_has_reviews", Label: "인스타 후기 존재", Kind: KindCheckbox},
		},
	},
	{
		Title: "체험단 마케팅 현황",
		Fields: []FieldSpec{
			{Name: "blog_content_recent", Label: "최신 블로그 콘텐츠", Kind: KindCheckbox},
			{Name: "blog_detailed_info", Label: "상세 정보 포함", Kind: KindCheckbox},
		},
	},
	{
		Title: "구글 마케팅 현황",
		Fields: []FieldSpec{
			{Name: "google_registered", Label: "구글 비즈니스 등록", Kind: KindCheckbox},
			{Name: "google_info_accurate", Label: "구글 정보 정확도", Kind: KindCheckbox},
		},
	},
	{
		Title: "유료 광고 현황",
		Fields: []FieldSpec{
			{Name: "ad_naver_place", Label: "네이버 플레이스 상위노출 광고", Kind: KindCheckbox},
			{Name: "ad_naver_place_budget", Label: "네이버 플레이스 광고 예산", Kind: KindText, MaxLength: 50},
			{Name: "ad_naver_powerlink", Label: "네이버 파워링크 광고", Kind: KindCheckbox},
			{Name: "ad_naver_powerlink_budget", Label: "파워링크 광고 예산", Kind: KindText, MaxLength: 50},
			{Name: "ad_instagram_reels", Label: "인스타 릴스 스폰서 광고", Kind: KindCheckbox},
			{Name: "ad_instagram_budget", Label: "인스타 광고 예산", Kind: KindText, MaxLength: 50},
		},
	},
	{
		Title: "마케팅 대행사 이용 경험",
		Fields: []FieldSpec{
			{Name: "used_marketing_agency", Label: "온라인 마케팅 대행사 이용 경험", Kind: KindCheckbox},
			{Name: "agency_satisfaction", Label: "대행사 만족도", Kind: KindSelect, Choices: AgencySatisfactionChoices},
			{Name: "agency_service_detail", Label: "이용한 서비스 내용", Kind: KindTextarea, Placeholder: "어떤 서비스를 이용하셨는지 간단히 적어주세요"},
		},
	},
	{
		Title: "추가 정보",
		Fields: []FieldSpec{
			{Name: "main_concerns", Label: "주요 고민사항", Kind: KindTextarea},
			{Name: "desired_improvements", Label: "개선 희망사항", Kind: KindTextarea},
		},
	},
}

// SurveyFields 모든 구역의 필드를 순서대로 반환
func SurveyFields() []FieldSpec {
	var fields []FieldSpec
	for _, section := range SurveySections {
		fields = append(fields, section.Fields...)
	}
	return fields
}

// IsInteger 정수형 필드 여부 (선택형이어도 정수로 저장되는 필드 포함)
func (f FieldSpec) IsInteger() bool {
	return f.Kind == KindNumber || f.Min != nil || f.Max != nil
}

var surveyFieldIndex = buildFieldIndex(reflect.TypeOf(SurveyResponse{}))

func buildFieldIndex(t reflect.Type) map[string]int {
	index := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("form"); name != "" {
			index[name] = i
		}
	}
	return index
}

// Field 폼 필드 이름으로 저장된 값 조회
func (s *SurveyResponse) Field(name string) (interface{}, bool) {
	i, ok := surveyFieldIndex[name]
	if !ok {
		return nil, false
	}
	v := reflect.ValueOf(s).Elem().Field(i)
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int:
		return int(v.Int()), true
	}
	return v.Interface(), true
}

// SetField 정제된 값을 폼 필드 이름에 해당하는 필드에 저장
// Named string types (BusinessType, …) accept plain strings.
func (s *SurveyResponse) SetField(name string, value interface{}) error {
	i, ok := surveyFieldIndex[name]
	if !ok {
		return fmt.Errorf("unknown survey field %q", name)
	}
	v := reflect.ValueOf(s).Elem().Field(i)
	in := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		if in.Kind() != reflect.String {
			return fmt.Errorf("field %q expects a string, got %T", name, value)
		}
		v.SetString(in.String())
	case reflect.Bool:
		if in.Kind() != reflect.Bool {
			return fmt.Errorf("field %q expects a bool, got %T", name, value)
		}
		v.SetBool(in.Bool())
	case reflect.Int:
		if in.Kind() != reflect.Int {
			return fmt.Errorf("field %q expects an int, got %T", name, value)
		}
		v.SetInt(in.Int())
	default:
		return fmt.Errorf("field %q has unsupported kind %s", name, v.Kind())
	}
	return nil
}

// Display 메일, 관리자 화면용 표시 문자열
func (s *SurveyResponse) Display(f FieldSpec) string {
	value, ok := s.Field(f.Name)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case bool:
		if v {
			return "예"
		}
		return "아니오"
	case int:
		if len(f.Choices) > 0 {
			return choiceLabel(f.Choices, fmt.Sprint(v))
		}
		return fmt.Sprint(v)
	case string:
		if f.Name == "business_type" {
			return s.BusinessTypeDisplay()
		}
		if len(f.Choices) > 0 && v != "" {
			return choiceLabel(f.Choices, v)
		}
		return v
	}
	return fmt.Sprint(value)
}
