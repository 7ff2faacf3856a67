package domain

import (
	"math/big"
	"regexp"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

var (
	Big0   = big.NewInt(0)
	Big1   = big.NewInt(1)
	Big100 = big.NewInt(100)

	txHashPattern  = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	amountPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// AccountId is the stable id identity resolves a caller to
type AccountId string

func (a AccountId) IsEmpty() bool {
	return len(a) == 0
}

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) IsValid() bool {
	return addressPattern.MatchString(string(a))
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// TxHash references a settlement transaction on the ledger
type TxHash string

func (h TxHash) IsValid() bool {
	return txHashPattern.MatchString(string(h))
}

func (h TxHash) ToLower() TxHash {
	return TxHash(strings.ToLower(string(h)))
}

// Amount is a non-negative integer count of token base units, kept as a
// decimal string so it survives json and bson without precision loss.
type Amount string

func NewAmount(v *big.Int) Amount {
	return Amount(v.String())
}

func (a Amount) IsEmpty() bool {
	return len(a) == 0
}

func (a Amount) ToBig() (*big.Int, error) {
	if !amountPattern.MatchString(string(a)) {
		return nil, xerrors.Errorf("%w: %q", ErrInvalidAmount, string(a))
	}
	v, ok := new(big.Int).SetString(string(a), 10)
	if !ok {
		return nil, xerrors.Errorf("%w: %q", ErrInvalidAmount, string(a))
	}
	return v, nil
}

// MustBig is for amounts already validated on the way in
func (a Amount) MustBig() *big.Int {
	v, err := a.ToBig()
	if err != nil {
		panic(err)
	}
	return v
}

func (a Amount) IsPositive() bool {
	v, err := a.ToBig()
	return err == nil && v.Sign() > 0
}

// Clock returns the current time; tests replace it
type Clock func() time.Time
