package inventory

import "errors"

var (
	// ErrItemNotFound is returned when an inventory item is not found
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrSupplierNotFound is returned when a supplier is not found
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrTransactionNotFound is returned when a transaction is not found
	ErrTransactionNotFound = errors.New("inventory transaction not found")

	// ErrMissingName is returned when an item or supplier name is empty
	ErrMissingName = errors.New("name is required")

	// ErrMissingItem is returned when a transaction omits the item id
	ErrMissingItem = errors.New("item_id is required")

	// ErrInvalidTransactionType is returned for an unknown transaction type
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidQuantity is returned for a quantity the transaction type
	// cannot accept
	ErrInvalidQuantity = errors.New("invalid transaction quantity")
)
