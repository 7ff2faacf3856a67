package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/ethereum"
	"github.com/x-xyz/marketcore/base/log"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
)

const tokenTtl = 24 * time.Hour

var timeNow = time.Now

type impl struct {
	jwtSecret          []byte
	signingMsgTemplate string
	account            account.Usecase
}

// New creates the auth usecase. signingMsgTemplate holds one %s which is
// replaced by the account id to build the message users sign.
func New(jwtSecret, signingMsgTemplate string, account account.Usecase) domain.AuthUsecase {
	return &impl{
		jwtSecret:          []byte(jwtSecret),
		signingMsgTemplate: signingMsgTemplate,
		account:            account,
	}
}

func (im *impl) SignToken(ctx ctx.Ctx, accountId domain.AccountId, address domain.Address, signature string) (string, error) {
	if accountId.IsEmpty() {
		return "", domain.ErrBadParamInput
	}
	if !address.IsValid() {
		return "", domain.ErrInvalidAddress
	}

	msg := fmt.Sprintf(im.signingMsgTemplate, accountId)
	if ok, err := ethereum.ValidateMsgSignature([]byte(msg), signature, string(address)); err != nil {
		ctx.WithFields(log.Fields{
			"err":       err,
			"accountId": accountId,
			"address":   address,
		}).Warn("ethereum.ValidateMsgSignature failed")
		return "", domain.ErrInvalidSignature
	} else if !ok {
		return "", domain.ErrInvalidSignature
	}

	if _, err := im.account.LinkPayout(ctx, accountId, address); err != nil {
		ctx.WithField("err", err).Error("account.LinkPayout failed")
		return "", err
	}

	claims := domain.JwtCustomClaims{
		AccountId: string(accountId),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: timeNow().Add(tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.AccountId, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid && claims.AccountId != "" {
		return domain.AccountId(claims.AccountId), nil
	}

	return "", domain.ErrUnauthorized
}
