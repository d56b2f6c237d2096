package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoSession          = errors.New("no valid session")
)

// Business errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrSKUTaken          = errors.New("sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyInvoice      = errors.New("invoice requires at least one line item")
	ErrInvalidItem       = errors.New("invoice item has invalid quantity or price")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidTimeRange  = errors.New("end time must be after start time")
)
