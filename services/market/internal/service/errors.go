package service

import "errors"

var (
	ErrValidation         = errors.New("validation")            // 422
	ErrNotFound           = errors.New("not found")             // 404, also covers "not yours"
	ErrEmptyCart          = errors.New("cart is empty")         // 400
	ErrNotCancellable     = errors.New("order not cancellable") // 400
	ErrConflict           = errors.New("conflict")              // 409
	ErrCheckoutFailed     = errors.New("checkout failed")       // 500
	ErrStatusUpdateFailed = errors.New("status update failed")  // 500
)
