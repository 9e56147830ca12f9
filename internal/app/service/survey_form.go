package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/marketing-survey/internal/app/model"
)

// 필드 오류 메시지
const (
	msgRequired     = "필수 항목입니다."
	msgInvalidEmail = "올바른 이메일 주소를 입력하세요."
	msgInvalidInt   = "정수를 입력하세요."
)

func msgInvalidChoice(value string) string {
	return fmt.Sprintf("올바르게 선택해 주세요. %s 이/가 선택가능항목에 없습니다.", value)
}

func msgMaxLength(limit, got int) string {
	return fmt.Sprintf("이 값이 최대 %d 개의 글자인지 확인하세요(입력값 %d 자).", limit, got)
}

func msgMinValue(limit int) string {
	return fmt.Sprintf("이 값이 %d 이상인지 확인하세요.", limit)
}

func msgMaxValue(limit int) string {
	return fmt.Sprintf("이 값이 %d 이하인지 확인하세요.", limit)
}

// ValidationError 필드별 검증 오류 (설문, 수신자 입력 공용)
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// SurveyForm 설문 입력값 검증기. I/O 없음.
type SurveyForm struct {
	validate *validator.Validate
	fields   []model.FieldSpec
}

func NewSurveyForm() *SurveyForm {
	return &SurveyForm{
		validate: validator.New(),
		fields:   model.SurveyFields(),
	}
}

var defaultSurveyForm = NewSurveyForm()

// ValidateSurvey 공용 폼으로 입력값 검증
func ValidateSurvey(values map[string]string) (*model.SurveyResponse, error) {
	return defaultSurveyForm.Validate(values)
}

// Validate 입력값을 정제해 응답 객체로 변환
// 설문 필드가 아닌 키 (id, created_at, updated_at, csrf 토큰)는 무시
func (f *SurveyForm) Validate(values map[string]string) (*model.SurveyResponse, error) {
	survey := &model.SurveyResponse{}
	errs := make(map[string]string)

	for _, field := range f.fields {
		raw := values[field.Name]

		var (
			cleaned interface{}
			msg     string
		)
		switch {
		case field.Kind == model.KindCheckbox:
			cleaned = checkboxValue(raw)
		case field.IsInteger():
			cleaned, msg = f.cleanInt(field, raw)
		default:
			cleaned, msg = f.cleanString(field, raw)
		}

		if msg != "" {
			errs[field.Name] = msg
			continue
		}
		if err := survey.SetField(field.Name, cleaned); err != nil {
			errs[field.Name] = err.Error()
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return survey, nil
}

func (f *SurveyForm) cleanString(field model.FieldSpec, raw string) (string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required {
			return "", msgRequired
		}
		return "", ""
	}

	if len(field.Choices) > 0 && !model.HasChoice(field.Choices, value) {
		return "", msgInvalidChoice(value)
	}
	if field.MaxLength > 0 {
		if n := utf8.RuneCountInString(value); n > field.MaxLength {
			return "", msgMaxLength(field.MaxLength, n)
		}
	}
	if field.Kind == model.KindEmail {
		if err := f.validate.Var(value, "email"); err != nil {
			return "", msgInvalidEmail
		}
	}
	return value, ""
}

func (f *SurveyForm) cleanInt(field model.FieldSpec, raw string) (int, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required {
			return 0, msgRequired
		}
		return 0, ""
	}

	if len(field.Choices) > 0 && !model.HasChoice(field.Choices, value) {
		return 0, msgInvalidChoice(value)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, msgInvalidInt
	}
	if field.Min != nil && n < *field.Min {
		return 0, msgMinValue(*field.Min)
	}
	if field.Max != nil && n > *field.Max {
		return 0, msgMaxValue(*field.Max)
	}
	return n, ""
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "off":
		return false
	}
	return true
}

// FormValues Validate의 역변환 (수정 폼 채우기용)
func FormValues(survey *model.SurveyResponse) map[string]string {
	values := make(map[string]string)
	for _, field := range model.SurveyFields() {
		v, ok := survey.Field(field.Name)
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case bool:
			if tv {
				values[field.Name] = "on"
			} else {
				values[field.Name] = ""
			}
		case int:
			values[field.Name] = strconv.Itoa(tv)
		case string:
			values[field.Name] = tv
		default:
			values[field.Name] = fmt.Sprint(tv)
		}
	}
	return values
}
