package model

import (
	"fmt"
	"time"
)

// EmailRecipient 설문 결과를 받을 이메일 주소
type EmailRecipient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email" yaml:"email"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name" yaml:"name"`
	IsActive  bool      `gorm:"not null;index" json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

func (EmailRecipient) TableName() string {
	return "email_recipients"
}

func (r *EmailRecipient) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Email)
}
