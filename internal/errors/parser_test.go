package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "", InternalServerError},
		{"survey not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), "get survey", SurveyNotFound},
		{"recipient not found", gorm.ErrRecordNotFound, "update recipient", RecipientNotFound},
		{"generic not found", gorm.ErrRecordNotFound, "", ResourceNotFound},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_email_recipients_email" (SQLSTATE 23505)`), "", RecipientEmailExists},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: email_recipients.email"), "", RecipientEmailExists},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, "create recipient", RecipientEmailExists},
		{"other duplicate", errors.New("duplicate key value"), "", ResourceAlreadyExists},
		{"not null", errors.New(`null value in column "email" violates not-null constraint`), "", ValidationRequired},
		{"network", errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"), "", InternalExternalAPI},
		{"unknown", errors.New("boom"), "create survey", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_DefaultMessages(t *testing.T) {
	assert.Contains(t, ParseError(errors.New("x"), "submit survey").Message, "등록")
	assert.Contains(t, ParseError(errors.New("x"), "update survey").Message, "수정")
	assert.Contains(t, ParseError(errors.New("x"), "delete survey").Message, "삭제")
	assert.Contains(t, ParseError(errors.New("x"), "export surveys").Message, "내보내기")
}
