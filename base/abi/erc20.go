package abi

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ERC20TokenABI abi.ABI

// Erc20TransferTopic is keccak256("Transfer(address,address,uint256)")
var Erc20TransferTopic common.Hash

var ErrNotErc20Transfer = errors.New("not an erc20 Transfer log")

var erc20ABI = `[{"type":"event","anonymous":false,"name":"Transfer","inputs":[{"type":"address","name":"from","indexed":true},{"type":"address","name":"to","indexed":true},{"type":"uint256","name":"value"}]},{"type":"function","name":"transfer","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"address","name":"to"},{"type":"uint256","name":"value"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"decimals","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"uint8"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		panic("Failed to parse erc20 abi")
	}
	ERC20TokenABI = _abi
	Erc20TransferTopic = _abi.Events["Transfer"].ID
}

type Erc20TransferLog struct {
	From  common.Address // indexed
	To    common.Address // indexed
	Value *big.Int
}

// IsErc20TransferLog tells ERC-20 transfers apart from ERC-721 ones, which
// share the event signature but index the token id as a third topic.
func IsErc20TransferLog(log *types.Log) bool {
	return len(log.Topics) == 3 && log.Topics[0] == Erc20TransferTopic
}

func ToErc20TransferLog(log *types.Log) (*Erc20TransferLog, error) {
	if !IsErc20TransferLog(log) {
		return nil, ErrNotErc20Transfer
	}
	var transfer Erc20TransferLog
	if err := ERC20TokenABI.UnpackIntoInterface(&transfer, "Transfer", log.Data); err != nil {
		return nil, err
	}
	transfer.From = common.BytesToAddress(log.Topics[1].Bytes())
	transfer.To = common.BytesToAddress(log.Topics[2].Bytes())
	return &transfer, nil
}
