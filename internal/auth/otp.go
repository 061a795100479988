package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/internal/users"
	pkgauth "github.com/gaslink/gaslink-backend/pkg/auth"
	"github.com/gaslink/gaslink-backend/pkg/auth/session"
	"github.com/gaslink/gaslink-backend/pkg/config"
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/phone"
)

const invalidCodeMessage = "invalid or expired verification code"

// OTPService drives the phone-number sign-in and sign-up flows.
type OTPService interface {
	Start(ctx context.Context, req OTPStartRequest) error
	Verify(ctx context.Context, req OTPVerifyRequest) (*LoginResponse, error)
}

type otpUserRepository interface {
	FindByPhone(ctx context.Context, phone string) (*models.Profile, error)
	Create(ctx context.Context, dto users.CreateProfileDTO) (*models.Profile, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type otpCodeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OTPKey(purpose, phone string) string
}

type smsSender interface {
	Send(ctx context.Context, phone, message string) error
}

type tokenSessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// OTPServiceParams bundles the dependencies for the OTP flows.
type OTPServiceParams struct {
	UserRepo       otpUserRepository
	CodeStore      otpCodeStore
	SMS            smsSender
	SessionManager tokenSessionManager
	JWTConfig      config.JWTConfig
	OTPConfig      config.OTPConfig
}

type otpService struct {
	users   otpUserRepository
	codes   otpCodeStore
	sms     smsSender
	session tokenSessionManager
	jwtCfg  config.JWTConfig
	otpCfg  config.OTPConfig
}

// NewOTPService constructs the OTP service with the provided dependencies.
func NewOTPService(params OTPServiceParams) (OTPService, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository is required")
	}
	if params.CodeStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "otp code store is required")
	}
	if params.SMS == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sms sender is required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager is required")
	}
	return &otpService{
		users:   params.UserRepo,
		codes:   params.CodeStore,
		sms:     params.SMS,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		otpCfg:  params.OTPConfig,
	}, nil
}

func (s *otpService) Start(ctx context.Context, req OTPStartRequest) error {
	purpose, normalized, err := s.normalize(req.Phone, req.Purpose)
	if err != nil {
		return err
	}

	// Existence is checked before any SMS goes out so a duplicate signup
	// costs nothing at the gateway.
	_, err = s.users.FindByPhone(ctx, normalized)
	switch {
	case err == nil:
		if purpose == OTPPurposeSignup {
			return pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if purpose == OTPPurposeSignin {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no account for this phone")
		}
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile by phone")
	}

	code, err := generateOTPCode(s.codeLength())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp code")
	}

	ttl := s.otpCfg.TTL
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	if err := s.codes.Set(ctx, s.codes.OTPKey(string(purpose), normalized), code, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store otp code")
	}

	message := fmt.Sprintf("[가스링크] 인증번호 %s를 입력해 주세요.", code)
	if err := s.sms.Send(ctx, normalized, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp sms")
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, req OTPVerifyRequest) (*LoginResponse, error) {
	purpose, normalized, err := s.normalize(req.Phone, req.Purpose)
	if err != nil {
		return nil, err
	}
	provided := strings.TrimSpace(req.Code)
	if provided == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	key := s.codes.OTPKey(string(purpose), normalized)
	stored, err := s.codes.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCodeMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load otp code")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCodeMessage)
	}
	if err := s.codes.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume otp code")
	}

	profile, err := s.resolveProfile(ctx, purpose, normalized, req.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, profile.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	profile.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: profile.ID,
		Role:   profile.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(profile),
	}, nil
}

func (s *otpService) resolveProfile(ctx context.Context, purpose OTPPurpose, normalizedPhone string, name *string) (*models.Profile, error) {
	existing, err := s.users.FindByPhone(ctx, normalizedPhone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup profile by phone")
	}

	switch purpose {
	case OTPPurposeSignin:
		if existing == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account for this phone")
		}
		return existing, nil
	case OTPPurposeSignup:
		if existing != nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		profile, err := s.users.Create(ctx, users.CreateProfileDTO{
			Phone: normalizedPhone,
			Name:  name,
			Role:  enums.UserRoleUser,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		return profile, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purpose")
	}
}

func (s *otpService) normalize(rawPhone, rawPurpose string) (OTPPurpose, string, error) {
	purpose, ok := ParseOTPPurpose(rawPurpose)
	if !ok {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "purpose must be signin or signup")
	}
	normalized := phone.ToInternational(rawPhone)
	if strings.TrimSpace(normalized) == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	return purpose, normalized, nil
}

func (s *otpService) codeLength() int {
	if s.otpCfg.Length > 0 {
		return s.otpCfg.Length
	}
	return 6
}

func generateOTPCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
