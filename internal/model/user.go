package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	FullName           string         `json:"full_name" gorm:"not null"`
	UserName           string         `json:"user_name" gorm:"not null;uniqueIndex"`
	Email              string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash       []byte         `json:"-" gorm:"not null"`
	ProfilePicture     *string        `json:"profile_picture,omitempty"`
	Country            string         `json:"country"`
	State              string         `json:"state"`
	EducationLevel     string         `json:"education_level"`
	Subject            string         `json:"subject"`
	StudyGoals         string         `json:"study_goals" gorm:"type:text"`
	ResetCodeHash      []byte         `json:"-"`
	ResetCodeExpiresAt *time.Time     `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
