package domain

import (
	"context"

	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
)

// RedeemRequest exchanges a short code for a fresh session. IP address
// and user agent are diagnostic only.
type RedeemRequest struct {
	ShortCode string
	IPAddress string
	UserAgent string
}

// RedeemResult carries the signed token, its session row and the
// read-only bundle the client bootstraps from.
type RedeemResult struct {
	Token   string                  `json:"token"`
	Session *CandidateSession       `json:"session"`
	Bundle  *interviewdomain.Bundle `json:"bundle"`
}

type Service interface {
	Redeem(ctx context.Context, req RedeemRequest) (*RedeemResult, error)

	// Validate re-derives all authority from the stored session row; the
	// token signature must already have been verified by the caller.
	Validate(ctx context.Context, jti string) (*CandidateSession, error)
}
