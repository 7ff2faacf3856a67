package chain

import (
	"errors"
	"math/big"
	"testing"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketcore/base/abi"
	bCtx "github.com/x-xyz/marketcore/base/ctx"
	"github.com/x-xyz/marketcore/domain"
	"github.com/x-xyz/marketcore/domain/mocks"
	"github.com/x-xyz/marketcore/domain/settlement"
)

var (
	mockCtx = bCtx.Background()
	txRef   = domain.TxHash("0x9fc76417374aa880d4449a1f7f31ec597f00b1f6f3dd2d66f4c9c6c445836d8b")
	token   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	nft     = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	buyer   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	seller  = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

type ledgerSuite struct {
	suite.Suite
	client *mocks.EthClientRepo
	ledger settlement.Ledger
}

func (s *ledgerSuite) SetupTest() {
	s.client = &mocks.EthClientRepo{}
	s.ledger = NewLedger(s.client)
}

func (s *ledgerSuite) TearDownTest() {
	s.client.AssertExpectations(s.T())
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(ledgerSuite))
}

func transferLog(contract, from, to common.Address, value *big.Int, index uint) *types.Log {
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			abi.Erc20TransferTopic,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data:  common.LeftPadBytes(value.Bytes(), 32),
		Index: index,
	}
}

func (s *ledgerSuite) TestGetTransaction() {
	nftLog := transferLog(nft, seller, buyer, big.NewInt(0), 1)
	nftLog.Topics = append(nftLog.Topics, common.BigToHash(big.NewInt(42)))
	nftLog.Data = nil

	receipt := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(1200),
		Logs: []*types.Log{
			transferLog(token, buyer, seller, big.NewInt(50), 0),
			nftLog,
		},
	}
	s.client.On("TransactionReceipt", mock.Anything, common.HexToHash(string(txRef))).Return(receipt, nil).Once()

	tx, err := s.ledger.GetTransaction(mockCtx, txRef)
	s.Require().NoError(err)
	s.True(tx.Succeeded)
	s.Equal(uint64(1200), tx.BlockNumber)
	s.Require().Len(tx.Transfers, 1)
	t := tx.Transfers[0]
	s.Equal(domain.Address(token.Hex()).ToLower(), t.Token)
	s.Equal(domain.Address(buyer.Hex()).ToLower(), t.From)
	s.Equal(domain.Address(seller.Hex()).ToLower(), t.To)
	s.Equal("50", t.Amount.String())
}

func (s *ledgerSuite) TestFailedTransaction() {
	receipt := &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(7)}
	s.client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(receipt, nil).Once()

	tx, err := s.ledger.GetTransaction(mockCtx, txRef)
	s.Require().NoError(err)
	s.False(tx.Succeeded)
	s.Empty(tx.Transfers)
}

func (s *ledgerSuite) TestNotFound() {
	s.client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, goethereum.NotFound).Once()
	_, err := s.ledger.GetTransaction(mockCtx, txRef)
	s.ErrorIs(err, settlement.ErrTxNotFound)
}

func (s *ledgerSuite) TestNodeError() {
	boom := errors.New("connection refused")
	s.client.On("TransactionReceipt", mock.Anything, mock.Anything).Return(nil, boom).Once()
	_, err := s.ledger.GetTransaction(mockCtx, txRef)
	s.ErrorIs(err, boom)
	s.NotErrorIs(err, settlement.ErrTxNotFound)

	s.client.On("BlockNumber", mock.Anything).Return(uint64(1300), nil).Once()
	h, err := s.ledger.CurrentHeight(mockCtx)
	s.NoError(err)
	s.Equal(uint64(1300), h)
}
