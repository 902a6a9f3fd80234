package item

import "errors"

var (
	ErrNotFound          = errors.New("inventory item not found")
	ErrSKUExists         = errors.New("sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrLockBusy          = errors.New("item is locked by another operation")
)
