package validator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketcore/domain"
)

// IsValidAddress returns is an address valid or not
func IsValidAddress(address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}
	checksum := common.HexToAddress(address).Hex()
	return strings.EqualFold(checksum, address)
}

// New returns a validate with the marketplace tags registered:
//   address: 0x prefixed 20 byte hex
//   txref:   0x prefixed 32 byte hex
//   amount:  base-unit integer, no sign or decimals
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("txref", func(fl validator.FieldLevel) bool {
		return domain.TxHash(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return domain.Amount(fl.Field().String()).IsPositive()
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
