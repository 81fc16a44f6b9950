package domain

import (
	"errors"
	"fmt"
)

// Error classes. Handlers map these with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

var (
	// Customer errors
	ErrCustomerNotFound   = fmt.Errorf("%w: customer not found", ErrNotFound)
	ErrMissingCustomerID  = fmt.Errorf("%w: customer id is required", ErrValidation)
	ErrCustomerMismatch   = fmt.Errorf("%w: customer does not own the referenced entry", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrDuplicateCustomer  = fmt.Errorf("%w: customer already exists", ErrConflict)
	ErrInvalidPhoneNumber = fmt.Errorf("%w: invalid phone number", ErrValidation)

	// Udhari errors
	ErrUdhariNotFound     = fmt.Errorf("%w: udhari entry not found", ErrNotFound)
	ErrInvalidDirection   = fmt.Errorf("%w: direction must be +1 or -1", ErrValidation)
	ErrNegativePrincipal  = fmt.Errorf("%w: principal must not be negative", ErrValidation)
	ErrNegativeInterest   = fmt.Errorf("%w: interest must not be negative", ErrValidation)
	ErrWrongPaymentSide   = fmt.Errorf("%w: payment direction does not match the source entry", ErrValidation)
	ErrPaymentSourceUnset = fmt.Errorf("%w: sourceRef is required", ErrValidation)

	// Payment errors
	ErrInvalidPaymentAmount = fmt.Errorf("%w: payment principal must be positive", ErrValidation)
	ErrPaymentSourceMissing = fmt.Errorf("%w: payment sourceRef does not resolve to the instrument", ErrNotFound)
	ErrDuplicatePayment     = fmt.Errorf("%w: payment counted against more than one instrument", ErrValidation)
	ErrInvalidPaymentMethod = fmt.Errorf("%w: invalid payment method", ErrValidation)

	// Gold loan errors
	ErrGoldLoanNotFound    = fmt.Errorf("%w: gold loan not found", ErrNotFound)
	ErrNegativeRate        = fmt.Errorf("%w: interest rate must not be negative", ErrValidation)
	ErrInvalidInterestType = fmt.Errorf("%w: interest type must be monthly or yearly", ErrValidation)
	ErrInvalidPaymentType  = fmt.Errorf("%w: payment type must be interest, principal or both", ErrValidation)
	ErrLoanClosed          = fmt.Errorf("%w: gold loan is already completed", ErrValidation)
	ErrInvalidDueDate      = fmt.Errorf("%w: due date must not be before start date", ErrValidation)
	ErrInvalidPurity       = fmt.Errorf("%w: unknown purity", ErrValidation)
	ErrNoCollateral        = fmt.Errorf("%w: at least one pledged item is required", ErrValidation)

	// Transaction errors
	ErrTransactionNotFound    = fmt.Errorf("%w: transaction not found", ErrNotFound)
	ErrInvalidTransactionType = fmt.Errorf("%w: invalid transaction type", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrValidation)

	// Expense errors
	ErrExpenseNotFound     = fmt.Errorf("%w: expense not found", ErrNotFound)
	ErrInvalidExpenseTotal = fmt.Errorf("%w: tax must not exceed gross amount", ErrValidation)
	ErrMissingCategory     = fmt.Errorf("%w: category is required", ErrValidation)
)
