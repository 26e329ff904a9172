package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"aircare/services/validation"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	otpKeyPrefix      = "otp:"
	throttleKeyPrefix = "otp:throttle:"
	codeLength        = 6

	sendsPerWindow = 3
	sendWindow     = 90 * time.Second
)

type otpRecord struct {
	Phone    string `json:"phone"`
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// RedisProvider issues numeric codes, keeps them in redis with a TTL and
// delivers them through an SMSSender.
type RedisProvider struct {
	client      *redis.Client
	sender      SMSSender
	ttl         time.Duration
	maxAttempts int
	logger      *zap.Logger
	newCode     func() (string, error)
}

func NewRedisProvider(client *redis.Client, sender SMSSender, ttl time.Duration, maxAttempts int, logger *zap.Logger) *RedisProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &RedisProvider{
		client:      client,
		sender:      sender,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		logger:      logger,
		newCode:     generateNumericCode,
	}
}

// generateNumericCode returns a uniformly random 6-digit code.
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}

// allow counts sends per phone in a fixed redis window. The counter key
// expires with the window, so idle phones leave nothing behind.
func (p *RedisProvider) allow(ctx context.Context, phone string) (bool, error) {
	key := throttleKeyPrefix + phone
	count, err := p.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count verification requests: %w", err)
	}
	if count == 1 {
		if err := p.client.Expire(ctx, key, sendWindow).Err(); err != nil {
			p.client.Del(ctx, key)
			return false, fmt.Errorf("failed to count verification requests: %w", err)
		}
	}
	return count <= sendsPerWindow, nil
}

func (p *RedisProvider) SendOTP(ctx context.Context, phone, widgetID string) (SendResult, error) {
	digits := validation.DigitsOnly(phone)
	if len(digits) != 8 {
		return SendResult{Error: "Please enter a valid mobile number."}, nil
	}
	allowed, err := p.allow(ctx, digits)
	if err != nil {
		p.logger.Error("Failed to throttle OTP", zap.Error(err))
		return SendResult{}, err
	}
	if !allowed {
		return SendResult{Error: "Too many verification requests. Please wait before trying again."}, nil
	}

	code, err := p.newCode()
	if err != nil {
		return SendResult{}, err
	}
	verificationID := uuid.New().String()
	data, err := json.Marshal(otpRecord{Phone: digits, Code: code})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to marshal otp record: %w", err)
	}
	if err := p.client.Set(ctx, otpKeyPrefix+verificationID, data, p.ttl).Err(); err != nil {
		p.logger.Error("Failed to cache OTP", zap.Error(err))
		return SendResult{}, fmt.Errorf("failed to store verification code: %w", err)
	}

	message := fmt.Sprintf("Your AirCare verification code is %s. It expires in %d minutes.", code, int(p.ttl.Minutes()))
	if err := p.sender.Send(ctx, "+65"+digits, message); err != nil {
		p.client.Del(ctx, otpKeyPrefix+verificationID)
		p.logger.Error("Failed to deliver OTP", zap.Error(err))
		return SendResult{}, fmt.Errorf("failed to send verification code: %w", err)
	}

	p.logger.Debug("otp issued", zap.String("verificationId", verificationID), zap.String("widget", widgetID))
	return SendResult{IsValid: true, VerificationID: verificationID}, nil
}

func (p *RedisProvider) VerifyOTP(ctx context.Context, verificationID, code string) (VerifyResult, error) {
	key := otpKeyPrefix + verificationID
	raw, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return VerifyResult{Error: "Verification code expired. Please request a new one."}, nil
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to retrieve verification code: %w", err)
	}

	var rec otpRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return VerifyResult{}, fmt.Errorf("failed to decode verification record: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) == 1 {
		if err := p.client.Del(ctx, key).Err(); err != nil {
			p.logger.Error("Failed to delete OTP after verification", zap.Error(err))
		}
		return VerifyResult{IsValid: true}, nil
	}

	rec.Attempts++
	if rec.Attempts >= p.maxAttempts {
		p.client.Del(ctx, key)
		return VerifyResult{Error: "Too many incorrect attempts. Please request a new code."}, nil
	}
	data, _ := json.Marshal(rec)
	if err := p.client.Set(ctx, key, data, redis.KeepTTL).Err(); err != nil {
		p.logger.Warn("Failed to record OTP attempt", zap.Error(err))
	}
	return VerifyResult{Error: "Invalid verification code. Please try again."}, nil
}

func (p *RedisProvider) Teardown(ctx context.Context, verificationID string) error {
	return p.client.Del(ctx, otpKeyPrefix+verificationID).Err()
}
