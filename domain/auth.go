package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketcore/base/ctx"
)

type JwtCustomClaims struct {
	AccountId string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// SignToken checks that signature is `address` signing the login message
	// for accountId, links address as the account payout address and
	// returns an access token.
	SignToken(ctx ctx.Ctx, accountId AccountId, address Address, signature string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (AccountId, error)
}
