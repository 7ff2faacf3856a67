package usecase

import (
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	mAccount "github.com/x-xyz/marketcore/domain/account/mocks"
	"github.com/x-xyz/marketcore/domain/entry"
	"github.com/x-xyz/marketcore/domain/notification"
	mPricing "github.com/x-xyz/marketcore/domain/pricing/mocks"
	"github.com/x-xyz/marketcore/domain/settlement"
	mSettlement "github.com/x-xyz/marketcore/domain/settlement/mocks"
	itemUsecase "github.com/x-xyz/marketcore/stores/item/usecase"
	paymentUsecase "github.com/x-xyz/marketcore/stores/payment/usecase"
	"github.com/x-xyz/marketcore/stores/settlement/settlementtest"
	settlementUsecase "github.com/x-xyz/marketcore/stores/settlement/usecase"
)

var (
	mockCtx = ctx.Background()
	t0      = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	token    = domain.Address("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	treasury = domain.Address("0x15d34aaf54267db7d7c367839aaf71a00a2c6a65")
	wallets  = map[domain.AccountId]domain.Address{
		"alice": "0x70997970c51812dc3a010c7d01b50e0d17dc79c8",
		"bob":   "0x90f79bf6eb2c4f870365e785982e1f101e93b906",
	}

	// $1 at $0.5 per token
	quoted = new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))
)

func txRefOf(i int) domain.TxHash {
	return domain.TxHash(fmt.Sprintf("0x%064x", i))
}

type memClaimRepo struct {
	*settlementtest.Table[entry.Claim]
}

func (r *memClaimRepo) Insert(_ ctx.Ctx, claim *entry.Claim) error {
	if !r.Table.Insert(string(claim.AccountId), *claim) {
		return domain.ErrAlreadyClaimed
	}
	return nil
}

func (r *memClaimRepo) FindOne(_ ctx.Ctx, accountId domain.AccountId) (*entry.Claim, error) {
	claim, ok := r.Get(string(accountId))
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &claim, nil
}

type entrySuite struct {
	suite.Suite
	ledger *mSettlement.Ledger
	claims *memClaimRepo
	items  *settlementtest.ItemRepo
	sink   *settlementtest.Sink
	eu     entry.Usecase
}

func TestEntrySuite(t *testing.T) {
	suite.Run(t, new(entrySuite))
}

func (s *entrySuite) SetupTest() {
	clock := settlementtest.NewClock(t0)
	s.ledger = &mSettlement.Ledger{}
	s.ledger.On("CurrentHeight", mock.Anything).Return(uint64(200), nil).Maybe()
	account := &mAccount.Usecase{}
	for id, w := range wallets {
		account.On("PayoutAddress", mock.Anything, id).Return(w, nil).Maybe()
	}
	account.On("PayoutAddress", mock.Anything, domain.AccountId("nowallet")).Return(domain.Address(""), domain.ErrMissingPayout).Maybe()
	oracle := &mPricing.Oracle{}
	oracle.On("UsdToToken", mock.Anything, mock.MatchedBy(func(usd decimal.Decimal) bool {
		return usd.Equal(decimal.NewFromInt(1))
	})).Return(quoted, nil).Maybe()

	s.claims = &memClaimRepo{settlementtest.NewTable[entry.Claim]()}
	s.items = settlementtest.NewItemRepo()
	records := settlementtest.NewTxRecordRepo()
	s.sink = &settlementtest.Sink{}
	transactor := settlementtest.NewTransactor(s.claims, s.items, records)

	s.eu = New(&Cfg{
		ClaimRepo: s.claims,
		Items: itemUsecase.New(&itemUsecase.Cfg{
			Repo:       s.items,
			HoldPeriod: 7 * 24 * time.Hour,
			Clock:      clock.Now,
		}),
		Account: account,
		Oracle:  oracle,
		Orchestrator: settlementUsecase.New(&settlementUsecase.Cfg{
			Verifier:    paymentUsecase.NewVerifier(&paymentUsecase.VerifierCfg{Ledger: s.ledger, Token: token, Metrics: metrics.Nop()}),
			ReplayGuard: paymentUsecase.NewReplayGuard(records, clock.Now),
			Transactor:  transactor,
			Sink:        s.sink,
			Clock:       clock.Now,
			Metrics:     metrics.Nop(),
		}),
		PriceUsd: decimal.NewFromInt(1),
		Treasury: treasury,
		PackSize: 3,
		Clock:    clock.Now,
	})
}

func (s *entrySuite) mockPayment(txRef domain.TxHash, payer domain.AccountId, amount *big.Int) {
	s.ledger.On("GetTransaction", mock.Anything, txRef).Return(&settlement.LedgerTx{
		TxRef:       txRef,
		Succeeded:   true,
		BlockNumber: 100,
		Transfers: []settlement.Transfer{
			{Token: token, From: wallets[payer], To: treasury, Amount: amount},
		},
	}, nil).Once()
}

// pct returns quoted scaled by p percent
func pct(p int64) *big.Int {
	v := new(big.Int).Mul(quoted, big.NewInt(p))
	return v.Quo(v, big.NewInt(100))
}

func (s *entrySuite) TestQuote() {
	q, err := s.eu.Quote(mockCtx)
	s.Require().NoError(err)
	s.Equal("1", q.UsdAmount)
	s.Equal(domain.NewAmount(quoted), q.TokenAmount)
	s.Equal(treasury, q.Treasury)
	s.Equal(3, q.PackSize)
}

func (s *entrySuite) TestClaimOnce() {
	_, err := s.eu.Status(mockCtx, "alice")
	s.ErrorIs(err, domain.ErrNotFound)

	// tolerant mode takes a payment a little under the quote
	s.mockPayment(txRefOf(1), "alice", pct(99))
	receipt, err := s.eu.Claim(mockCtx, "alice", txRefOf(1))
	s.Require().NoError(err)
	s.Equal(settlement.ActionEntryClaim, receipt.Action)
	s.Len(receipt.ItemIds, 3)

	for _, id := range receipt.ItemIds {
		i, ok := s.items.Get(id)
		s.Require().True(ok)
		s.Equal(domain.AccountId("alice"), i.OwnerId)
		s.Equal("player", i.ItemType)
		s.Require().NotNil(i.HoldUntil)
		s.Equal(t0.Add(7*24*time.Hour), *i.HoldUntil)
	}

	claim, err := s.eu.Status(mockCtx, "alice")
	s.Require().NoError(err)
	s.Equal(receipt.ItemIds, claim.ItemIds)
	s.Equal(domain.NewAmount(quoted), claim.Amount)

	granted := s.sink.Facts()
	s.Require().Len(granted, 1)
	s.Equal(notification.KindEntryGranted, granted[0].Kind)

	_, err = s.eu.Claim(mockCtx, "alice", txRefOf(1))
	s.ErrorIs(err, domain.ErrAlreadyConsumed)
	_, err = s.eu.Claim(mockCtx, "alice", txRefOf(2))
	s.ErrorIs(err, domain.ErrAlreadyClaimed)
}

func (s *entrySuite) TestClaimRejected() {
	s.mockPayment(txRefOf(1), "bob", pct(98))
	_, err := s.eu.Claim(mockCtx, "bob", txRefOf(1))
	s.ErrorIs(err, domain.ErrPaymentInvalid)

	// alice's transfer cannot pay for bob
	s.mockPayment(txRefOf(2), "alice", quoted)
	_, err = s.eu.Claim(mockCtx, "bob", txRefOf(2))
	s.ErrorIs(err, domain.ErrPaymentInvalid)

	_, err = s.eu.Claim(mockCtx, "nowallet", txRefOf(3))
	s.ErrorIs(err, domain.ErrMissingPayout)

	s.Zero(s.items.Len())
	s.Zero(s.claims.Len())
}

func (s *entrySuite) TestConcurrentClaims() {
	const n = 8
	for i := 0; i < n; i++ {
		s.mockPayment(txRefOf(i), "alice", quoted)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.eu.Claim(mockCtx, "alice", txRefOf(i)); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, granted)
	s.Equal(1, s.claims.Len())
	s.Equal(3, s.items.Len())
}
