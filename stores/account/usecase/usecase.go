package usecase

import (
	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/account"
)

type impl struct {
	repo account.Repo
}

func New(repo account.Repo) account.Usecase {
	return &impl{repo: repo}
}

func (im *impl) Get(c ctx.Ctx, id domain.AccountId) (*account.Account, error) {
	return im.repo.FindOne(c, id)
}

func (im *impl) LinkPayout(c ctx.Ctx, id domain.AccountId, address domain.Address) (*account.Account, error) {
	if id.IsEmpty() {
		return nil, domain.ErrUnauthorized
	}
	if !address.IsValid() || address.Equals(domain.EmptyAddress) {
		return nil, domain.ErrInvalidAddress
	}
	return im.repo.LinkPayout(c, id, address)
}

func (im *impl) PayoutAddress(c ctx.Ctx, id domain.AccountId) (domain.Address, error) {
	a, err := im.repo.FindOne(c, id)
	if err == domain.ErrNotFound {
		return "", domain.ErrMissingPayout
	} else if err != nil {
		return "", err
	}
	if !a.HasPayout() {
		return "", domain.ErrMissingPayout
	}
	return a.PayoutAddress, nil
}
