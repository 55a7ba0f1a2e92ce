package dto

import "time"

// RegisterDTO is the request body for creating an account.
type RegisterDTO struct {
	FullName        string `json:"full_name" form:"full_name" binding:"required"`
	UserName        string `json:"user_name" form:"user_name" binding:"required,min=3,max=32"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"`
	Country         string `json:"country" form:"country" binding:"required"`
	State           string `json:"state" form:"state" binding:"required"`
	EducationLevel  string `json:"education_level" form:"education_level" binding:"required"`
	Subject         string `json:"subject" form:"subject" binding:"required"`
	StudyGoals      string `json:"study_goals" form:"study_goals" binding:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SendResetCodeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeDTO struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type ResetPasswordDTO struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required,len=6,numeric"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// UserResponseDTO never carries password or reset material.
type UserResponseDTO struct {
	ID             uint      `json:"id"`
	FullName       string    `json:"full_name"`
	UserName       string    `json:"user_name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	Country        string    `json:"country"`
	State          string    `json:"state"`
	EducationLevel string    `json:"education_level"`
	Subject        string    `json:"subject"`
	StudyGoals     string    `json:"study_goals"`
	CreatedAt      time.Time `json:"created_at"`
}

type AuthResponseDTO struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      UserResponseDTO `json:"user"`
}

type UserSummaryDTO struct {
	ID             uint    `json:"id"`
	FullName       string  `json:"full_name"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}
