package otp

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// MXEmailVerifier accepts addresses whose domain publishes MX records.
type MXEmailVerifier struct {
	Timeout  time.Duration
	LookupMX func(ctx context.Context, host string) ([]*net.MX, error)
}

func NewMXEmailVerifier() *MXEmailVerifier {
	return &MXEmailVerifier{
		Timeout:  3 * time.Second,
		LookupMX: net.DefaultResolver.LookupMX,
	}
}

func (v *MXEmailVerifier) ValidateEmail(ctx context.Context, email string) (EmailResult, error) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return EmailResult{Error: "Please enter a valid email address"}, nil
	}
	domain := strings.ToLower(email[at+1:])

	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	records, err := v.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return EmailResult{Error: "This email domain does not exist"}, nil
		}
		return EmailResult{}, err
	}
	if len(records) == 0 || (len(records) == 1 && records[0].Host == ".") {
		return EmailResult{Error: "This email domain cannot receive mail"}, nil
	}
	return EmailResult{IsValid: true}, nil
}
