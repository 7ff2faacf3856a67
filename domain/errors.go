package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	ErrUnauthorized  = errors.New("unauthorized")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrInvalidTxRef     = errors.New("invalid transaction reference")
	ErrInvalidAmount    = errors.New("invalid amount")

	// state machine errors
	ErrNotActive     = errors.New("not active")
	ErrNotEnded      = errors.New("auction not ended")
	ErrNotOwner      = errors.New("not owner")
	ErrNotWinner     = errors.New("not winner")
	ErrSelfTrade     = errors.New("buyer is the seller")
	ErrSelfBid       = errors.New("seller cannot bid on own auction")
	ErrBelowMinimum  = errors.New("bid below minimum")
	ErrUseBuyNowFlow = errors.New("bid reaches buy now amount, use buy now")
	ErrHasBids       = errors.New("auction has bids")
	ErrAlreadyListed = errors.New("item already listed")
	ErrItemOnHold    = errors.New("item on hold")

	ErrAlreadyClaimed = errors.New("already claimed")

	// settlement errors
	ErrAlreadyConsumed   = errors.New("transaction already consumed")
	ErrPaymentInvalid    = errors.New("payment invalid")
	ErrUnconfirmed       = errors.New("transaction unconfirmed, retry later")
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrMissingPayout     = errors.New("payout address not linked")

	// ErrConcurrentUpdate is returned when a versioned write lost against a concurrent one
	ErrConcurrentUpdate = errors.New("concurrent update")
)
