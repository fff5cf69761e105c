package ledger

import "errors"

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to transaction")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidAmount        = errors.New("transaction amount must be positive")
	ErrInvalidDate          = errors.New("transaction date is required")
	ErrInvalidRate          = errors.New("manual exchange rate must be positive")
	ErrCategoryRequired     = errors.New("category is required for income and expense transactions")
	ErrTargetWalletRequired = errors.New("target wallet is required for transfers")
	ErrTargetNotAllowed     = errors.New("target wallet is only valid for transfers")
	ErrSameWallet           = errors.New("transfer source and target wallets must differ")
	ErrNegativeFee          = errors.New("transfer fee cannot be negative")
	ErrFeeNotAllowed        = errors.New("fee is only valid for transfers")
)
