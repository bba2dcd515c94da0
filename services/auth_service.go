package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
	// maxOTPAttempts wrong codes burn the current OTP.
	maxOTPAttempts = 5
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID, role string) (string, error)
}

// OTPResult is returned when a login code was sent. DebugOTP is only set
// in development.
type OTPResult struct {
	Message  string `json:"message"`
	DebugOTP string `json:"debug_otp,omitempty"`
}

type AuthService interface {
	SendOTP(ctx context.Context, req *models.SendOTPRequest) (*OTPResult, *ServiceError)
	VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) (*models.AuthResponse, *ServiceError)
}

type authService struct {
	users     repository.UserRepository
	sms       sender.SMSSender
	tokens    TokenIssuer
	exposeOTP bool
	now       func() time.Time
	logger    *zap.Logger
}

func NewAuthService(users repository.UserRepository, sms sender.SMSSender, tokens TokenIssuer, exposeOTP bool, logger *zap.Logger) AuthService {
	return &authService{
		users:     users,
		sms:       sms,
		tokens:    tokens,
		exposeOTP: exposeOTP,
		now:       time.Now,
		logger:    logger,
	}
}

// SendOTP creates the account on first login and texts a one-time code.
func (s *authService) SendOTP(ctx context.Context, req *models.SendOTPRequest) (*OTPResult, *ServiceError) {
	phone := normalizePhone(req.Phone)
	if phone == "" {
		return nil, validationError("Phone number is required")
	}

	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("Failed to look up user", zap.Error(err))
			return nil, internalError("Failed to send OTP")
		}
		if strings.TrimSpace(req.Name) == "" {
			return nil, validationError("Name is required for new users")
		}
		user = &models.User{Name: strings.TrimSpace(req.Name), Phone: phone, Role: models.RoleCustomer}
		if req.Email != "" {
			email := strings.ToLower(strings.TrimSpace(req.Email))
			user.Email = &email
		}
		if err := s.users.Create(ctx, user); err != nil {
			s.logger.Error("Failed to create user", zap.Error(err))
			return nil, internalError("Failed to create account")
		}
		s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	}

	code, err := generateOTP()
	if err != nil {
		return nil, internalError("Failed to generate OTP")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("Failed to generate OTP")
	}
	if err := s.users.SaveOTP(ctx, user.ID, string(hash), s.now().Add(otpTTL)); err != nil {
		s.logger.Error("Failed to store OTP", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, internalError("Failed to send OTP")
	}

	msg := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(otpTTL.Minutes()))
	if _, err := s.sms.SendSMS(ctx, sender.FormatPhone(phone), msg); err != nil {
		s.logger.Error("Failed to send OTP SMS", zap.String("user_id", user.ID.String()), zap.Error(err))
		if !s.exposeOTP {
			return nil, upstreamError("Failed to send OTP")
		}
	}

	result := &OTPResult{Message: "OTP sent"}
	if s.exposeOTP {
		result.DebugOTP = code
	}
	return result, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) (*models.AuthResponse, *ServiceError) {
	user, err := s.users.FindByPhone(ctx, normalizePhone(req.Phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("User not found")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, internalError("Failed to verify OTP")
	}

	if user.OTPHash == "" || user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return nil, validationError("OTP expired or not requested")
	}
	if user.OTPAttempts >= maxOTPAttempts {
		s.clearOTP(ctx, user)
		return nil, validationError("Too many invalid attempts. Please request a new OTP")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(req.OTP)); err != nil {
		attempts, countErr := s.users.RecordOTPFailure(ctx, user.ID)
		if countErr != nil {
			s.logger.Error("Failed to count OTP attempt", zap.String("user_id", user.ID.String()), zap.Error(countErr))
			return nil, internalError("Failed to verify OTP")
		}
		if attempts >= maxOTPAttempts {
			s.logger.Warn("OTP locked after repeated failures", zap.String("user_id", user.ID.String()))
			s.clearOTP(ctx, user)
			return nil, validationError("Too many invalid attempts. Please request a new OTP")
		}
		return nil, validationError("Invalid OTP")
	}

	s.clearOTP(ctx, user)

	token, err := s.tokens.Generate(user.ID.String(), string(user.Role))
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, internalError("Failed to issue token")
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) clearOTP(ctx context.Context, user *models.User) {
	if err := s.users.ClearOTP(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to clear OTP", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	user.OTPAttempts = 0
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n.Int64()), nil
}

func normalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}
