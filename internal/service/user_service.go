package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req dto.RegisterDTO, profilePicture *string) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, req dto.LoginDTO) (*dto.AuthResponseDTO, error)
	SendResetCode(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordDTO) error
	Me(ctx context.Context, userID uint) (*dto.UserResponseDTO, error)
	Search(ctx context.Context, userID uint, query string) ([]dto.UserSummaryDTO, error)
	Others(ctx context.Context, userID uint) ([]dto.UserSummaryDTO, error)
}

type userService struct {
	repo         repository.UserRepository
	tokens       TokenService
	mailer       Mailer
	resetCodeTTL time.Duration
	now          func() time.Time
}

func NewUserService(repo repository.UserRepository, tokens TokenService, mailer Mailer, cfg *config.Config) UserService {
	return &userService{
		repo:         repo,
		tokens:       tokens,
		mailer:       mailer,
		resetCodeTTL: cfg.Mail.ResetCodeTTL,
		now:          time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterDTO, profilePicture *string) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmailOrUserName(ctx, email, req.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FullName:       req.FullName,
		UserName:       req.UserName,
		Email:          email,
		PasswordHash:   hash,
		ProfilePicture: profilePicture,
		Country:        req.Country,
		State:          req.State,
		EducationLevel: req.EducationLevel,
		Subject:        req.Subject,
		StudyGoals:     req.StudyGoals,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Register: failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Msg("User registered")
	return s.authResponse(user)
}

func (s *userService) Login(ctx context.Context, req dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		log.Warn().Uint("userID", user.ID).Msg("Login: password mismatch")
		return nil, ErrInvalidCredentials
	}
	return s.authResponse(user)
}

func (s *userService) SendResetCode(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := newResetCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset code: %w", err)
	}
	if err := s.repo.SetResetCode(ctx, user.ID, hash, s.now().Add(s.resetCodeTTL)); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return s.mailer.SendResetCode(ctx, user.FullName, user.Email, code)
}

func (s *userService) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.checkResetCode(user, code)
}

func (s *userService) ResetPassword(ctx context.Context, req dto.ResetPasswordDTO) error {
	user, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.checkResetCode(user, req.Code); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	log.Info().Uint("userID", user.ID).Msg("Password reset")
	return nil
}

func (s *userService) Me(ctx context.Context, userID uint) (*dto.UserResponseDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	var resp dto.UserResponseDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return &resp, nil
}

func (s *userService) Search(ctx context.Context, userID uint, query string) ([]dto.UserSummaryDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.UserSummaryDTO{}, nil
	}
	users, err := s.repo.Search(ctx, query, userID)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Search users: repository error")
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return toUserSummaries(users)
}

// Others lists every user except the caller, for the messaging sidebar.
func (s *userService) Others(ctx context.Context, userID uint) ([]dto.UserSummaryDTO, error) {
	users, err := s.repo.FindAllExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return toUserSummaries(users)
}

func (s *userService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) checkResetCode(user *model.User, code string) error {
	if len(user.ResetCodeHash) == 0 || user.ResetCodeExpiresAt == nil || s.now().After(*user.ResetCodeExpiresAt) {
		return ErrInvalidResetCode
	}
	if bcrypt.CompareHashAndPassword(user.ResetCodeHash, []byte(code)) != nil {
		return ErrInvalidResetCode
	}
	return nil
}

func (s *userService) authResponse(user *model.User) (*dto.AuthResponseDTO, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	resp := &dto.AuthResponseDTO{Token: token, ExpiresAt: expiresAt}
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return resp, nil
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toUserSummaries(users []model.User) ([]dto.UserSummaryDTO, error) {
	out := make([]dto.UserSummaryDTO, 0, len(users))
	if err := copier.Copy(&out, &users); err != nil {
		return nil, fmt.Errorf("failed to map users: %w", err)
	}
	return out, nil
}
