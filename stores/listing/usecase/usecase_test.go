package usecase

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/base/metrics"
	"github.com/x-xyz/marketcore/domain"
	mAccount "github.com/x-xyz/marketcore/domain/account/mocks"
	"github.com/x-xyz/marketcore/domain/item"
	"github.com/x-xyz/marketcore/domain/listing"
	"github.com/x-xyz/marketcore/domain/notification"
	"github.com/x-xyz/marketcore/domain/settlement"
	mSettlement "github.com/x-xyz/marketcore/domain/settlement/mocks"
	paymentUsecase "github.com/x-xyz/marketcore/stores/payment/usecase"
	"github.com/x-xyz/marketcore/stores/settlement/settlementtest"
	settlementUsecase "github.com/x-xyz/marketcore/stores/settlement/usecase"
)

var (
	mockCtx = ctx.Background()
	now     = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	token         = domain.Address("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	sellerWallet  = domain.Address("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	buyerWallet   = domain.Address("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	buyer2Wallet  = domain.Address("0x90f79bf6eb2c4f870365e785982e1f101e93b906")
	walletOfBuyer = map[domain.AccountId]domain.Address{"buyer": buyerWallet, "buyer2": buyer2Wallet}
)

func txRefOf(i int) domain.TxHash {
	return domain.TxHash(fmt.Sprintf("0x%064x", i))
}

type listingSuite struct {
	suite.Suite
	ledger   *mSettlement.Ledger
	account  *mAccount.Usecase
	listings *settlementtest.ListingRepo
	items    *settlementtest.ItemRepo
	records  *settlementtest.TxRecordRepo
	sink     *settlementtest.Sink
	im       listing.Usecase
}

func TestListingSuite(t *testing.T) {
	suite.Run(t, new(listingSuite))
}

func (s *listingSuite) SetupTest() {
	clock := func() time.Time { return now }
	hold := now.Add(time.Hour)

	s.ledger = &mSettlement.Ledger{}
	s.ledger.On("CurrentHeight", mock.Anything).Return(uint64(200), nil).Maybe()
	s.account = &mAccount.Usecase{}
	s.account.On("PayoutAddress", mock.Anything, domain.AccountId("seller")).Return(sellerWallet, nil).Maybe()
	s.account.On("PayoutAddress", mock.Anything, domain.AccountId("buyer")).Return(buyerWallet, nil).Maybe()
	s.account.On("PayoutAddress", mock.Anything, domain.AccountId("buyer2")).Return(buyer2Wallet, nil).Maybe()
	s.account.On("PayoutAddress", mock.Anything, domain.AccountId("nowallet")).Return(domain.Address(""), domain.ErrMissingPayout).Maybe()

	s.listings = settlementtest.NewListingRepo()
	s.items = settlementtest.NewItemRepo(
		item.Item{Id: "i1", OwnerId: "seller", ItemType: "striker"},
		item.Item{Id: "held", OwnerId: "seller", ItemType: "keeper", HoldUntil: &hold},
		item.Item{Id: "i2", OwnerId: "nowallet", ItemType: "boots"},
	)
	s.records = settlementtest.NewTxRecordRepo()
	s.sink = &settlementtest.Sink{}
	transactor := settlementtest.NewTransactor(s.listings, s.items, s.records)

	s.im = New(&Cfg{
		Repo:     s.listings,
		ItemRepo: s.items,
		Account:  s.account,
		Orchestrator: settlementUsecase.New(&settlementUsecase.Cfg{
			Verifier:    paymentUsecase.NewVerifier(&paymentUsecase.VerifierCfg{Ledger: s.ledger, Token: token, Metrics: metrics.Nop()}),
			ReplayGuard: paymentUsecase.NewReplayGuard(s.records, clock),
			Transactor:  transactor,
			Sink:        s.sink,
			Clock:       clock,
			Metrics:     metrics.Nop(),
		}),
		Transactor: transactor,
		Clock:      clock,
	})
}

func (s *listingSuite) mockPayment(txRef domain.TxHash, from domain.Address, amount int64) {
	s.ledger.On("GetTransaction", mock.Anything, txRef).Return(&settlement.LedgerTx{
		TxRef:       txRef,
		Succeeded:   true,
		BlockNumber: 100,
		Transfers: []settlement.Transfer{
			{Token: token, From: from, To: sellerWallet, Amount: big.NewInt(amount)},
		},
	}, nil).Once()
}

func (s *listingSuite) item(id string) item.Item {
	i, ok := s.items.Get(id)
	s.Require().True(ok)
	return i
}

func (s *listingSuite) TestCreate() {
	l, err := s.im.Create(mockCtx, "seller", "i1", "50")
	s.Require().NoError(err)
	s.Equal(listing.StatusActive, l.Status)
	s.Equal(now, l.CreatedAt)
	s.Equal(l.Lock(), s.item("i1").LockedBy)

	_, err = s.im.Create(mockCtx, "seller", "i1", "60")
	s.ErrorIs(err, domain.ErrAlreadyListed)

	tests := []struct {
		name    string
		seller  domain.AccountId
		itemId  string
		price   domain.Amount
		wantErr error
	}{
		{name: "zero price", seller: "seller", itemId: "i1", price: "0", wantErr: domain.ErrBadParamInput},
		{name: "garbage price", seller: "seller", itemId: "i1", price: "1e3", wantErr: domain.ErrBadParamInput},
		{name: "not owner", seller: "buyer", itemId: "held", price: "50", wantErr: domain.ErrNotOwner},
		{name: "on hold", seller: "seller", itemId: "held", price: "50", wantErr: domain.ErrItemOnHold},
		{name: "no wallet", seller: "nowallet", itemId: "i2", price: "50", wantErr: domain.ErrMissingPayout},
		{name: "unknown item", seller: "seller", itemId: "nope", price: "50", wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.im.Create(mockCtx, tt.seller, tt.itemId, tt.price)
			s.ErrorIs(err, tt.wantErr)
		})
	}
	s.Equal(1, s.listings.Len())
	s.Empty(s.item("held").LockedBy)
}

func (s *listingSuite) TestBuyUnderpaidThenPaid() {
	l, err := s.im.Create(mockCtx, "seller", "i1", "50")
	s.Require().NoError(err)
	txRef := txRefOf(1)

	s.mockPayment(txRef, buyerWallet, 49)
	_, err = s.im.Buy(mockCtx, l.Id, "buyer", txRef)
	s.ErrorIs(err, domain.ErrPaymentInvalid)

	got, err := s.im.Get(mockCtx, l.Id)
	s.Require().NoError(err)
	s.Equal(listing.StatusActive, got.Status)
	s.Zero(s.records.Len())
	s.Equal(l.Lock(), s.item("i1").LockedBy)

	s.mockPayment(txRef, buyerWallet, 50)
	receipt, err := s.im.Buy(mockCtx, l.Id, "buyer", txRef)
	s.Require().NoError(err)
	s.Equal([]string{"i1"}, receipt.ItemIds)
	s.Equal(settlement.ActionListingBuy, receipt.Action)

	got, err = s.im.Get(mockCtx, l.Id)
	s.Require().NoError(err)
	s.Equal(listing.StatusSold, got.Status)
	s.Equal(domain.AccountId("buyer"), got.BuyerId)
	i := s.item("i1")
	s.Equal(domain.AccountId("buyer"), i.OwnerId)
	s.Empty(i.LockedBy)
	s.Equal(now, i.AcquiredAt)

	facts := s.sink.Facts()
	s.Require().Len(facts, 2)
	s.Equal(notification.KindListingSold, facts[0].Kind)
	s.Equal(domain.AccountId("seller"), facts[0].AccountId)
	s.Equal(notification.KindPurchased, facts[1].Kind)
	s.Equal(domain.AccountId("buyer"), facts[1].AccountId)

	_, err = s.im.Buy(mockCtx, l.Id, "buyer", txRef)
	s.ErrorIs(err, domain.ErrAlreadyConsumed)
	s.Equal(1, s.records.Len())
}

func (s *listingSuite) TestBuyRules() {
	l, err := s.im.Create(mockCtx, "seller", "i1", "50")
	s.Require().NoError(err)

	_, err = s.im.Buy(mockCtx, l.Id, "seller", txRefOf(1))
	s.ErrorIs(err, domain.ErrSelfTrade)

	_, err = s.im.Buy(mockCtx, l.Id, "nowallet", txRefOf(1))
	s.ErrorIs(err, domain.ErrMissingPayout)

	_, err = s.im.Buy(mockCtx, "nope", "buyer", txRefOf(1))
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.im.Buy(mockCtx, l.Id, "buyer", "0xnothex")
	s.ErrorIs(err, domain.ErrInvalidTxRef)

	s.ledger.AssertNotCalled(s.T(), "GetTransaction", mock.Anything, mock.Anything)

	// paid from a wallet other than the buyer's
	s.mockPayment(txRefOf(2), buyer2Wallet, 50)
	_, err = s.im.Buy(mockCtx, l.Id, "buyer", txRefOf(2))
	s.ErrorIs(err, domain.ErrPaymentInvalid)
	s.Zero(s.records.Len())
}

func (s *listingSuite) TestCancel() {
	l, err := s.im.Create(mockCtx, "seller", "i1", "50")
	s.Require().NoError(err)

	_, err = s.im.Cancel(mockCtx, l.Id, "buyer")
	s.ErrorIs(err, domain.ErrNotOwner)

	cancelled, err := s.im.Cancel(mockCtx, l.Id, "seller")
	s.Require().NoError(err)
	s.Equal(listing.StatusCancelled, cancelled.Status)
	s.Empty(s.item("i1").LockedBy)

	_, err = s.im.Cancel(mockCtx, l.Id, "seller")
	s.ErrorIs(err, domain.ErrNotActive)
	_, err = s.im.Buy(mockCtx, l.Id, "buyer", txRefOf(1))
	s.ErrorIs(err, domain.ErrNotActive)

	// the item can be listed again
	_, err = s.im.Create(mockCtx, "seller", "i1", "70")
	s.NoError(err)

	active, err := s.im.FindAll(mockCtx, listing.WithStatus(listing.StatusActive))
	s.Require().NoError(err)
	s.Len(active.Items, 1)
	s.Equal(1, active.Count)

	all, err := s.im.FindAll(mockCtx, listing.WithPagination(0, 1))
	s.Require().NoError(err)
	s.Len(all.Items, 1)
	s.Equal(2, all.Count)
}

func (s *listingSuite) TestConcurrentBuyers() {
	l, err := s.im.Create(mockCtx, "seller", "i1", "50")
	s.Require().NoError(err)

	buyers := []domain.AccountId{"buyer", "buyer2"}
	for i, b := range buyers {
		s.mockPayment(txRefOf(i+1), walletOfBuyer[b], 50)
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, b domain.AccountId) {
			defer wg.Done()
			_, errs[i] = s.im.Buy(mockCtx, l.Id, b, txRefOf(i+1))
		}(i, b)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		s.True(errors.Is(err, domain.ErrNotActive), err.Error())
	}
	s.Equal(1, winners)
	s.Equal(1, s.records.Len())

	got, err := s.im.Get(mockCtx, l.Id)
	s.Require().NoError(err)
	s.Equal(got.BuyerId, s.item("i1").OwnerId)
}
