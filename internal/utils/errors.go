package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrNoCompany          = errors.New("NO_COMPANY")
	ErrMissingName        = errors.New("MISSING_NAME")
	ErrMissingDescription = errors.New("MISSING_DESCRIPTION")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
)
