package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// DateLayout is the calendar date format accepted for date-only fields.
const DateLayout = "2006-01-02"

// Date accepts either a calendar date or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses YYYY-MM-DD or RFC 3339 into UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

func optionalTime(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func timeOf(d *Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// AddressRequest is a postal address.
type AddressRequest struct {
	Line1   string `json:"line1" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	Pincode string `json:"pincode" validate:"omitempty,numeric,len=6"`
}

func (a AddressRequest) toDomain() domain.Address {
	return domain.Address{Line1: a.Line1, City: a.City, State: a.State, Pincode: a.Pincode}
}

// CreateCustomerRequest represents a request to register a customer.
type CreateCustomerRequest struct {
	Name    string         `json:"name" validate:"required,max=100"`
	Phone   string         `json:"phone" validate:"max=20"`
	Email   string         `json:"email" validate:"omitempty,email"`
	Address AddressRequest `json:"address"`
	Status  string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address.toDomain(),
		Status:  domain.CustomerStatus(r.Status),
	}
}

// UpdateCustomerRequest is a partial update. Absent fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Phone   *string         `json:"phone" validate:"omitempty,max=20"`
	Email   *string         `json:"email" validate:"omitempty,email"`
	Address *AddressRequest `json:"address"`
	Status  *string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput() usecase.UpdateCustomerInput {
	in := usecase.UpdateCustomerInput{
		Name:  r.Name,
		Phone: r.Phone,
		Email: r.Email,
	}
	if r.Address != nil {
		addr := r.Address.toDomain()
		in.Address = &addr
	}
	if r.Status != nil {
		s := domain.CustomerStatus(*r.Status)
		in.Status = &s
	}
	return in
}

// CreateUdhariRequest records money given to or taken from a customer.
type CreateUdhariRequest struct {
	Customer       string `json:"customer" validate:"required"`
	Kind           string `json:"kind" validate:"max=50"`
	PrincipalPaise int64  `json:"principalPaise" validate:"gte=0"`
	InterestPaise  int64  `json:"interestPaise" validate:"gte=0"`
	TakenDate      *Date  `json:"takenDate"`
	ReturnDate     *Date  `json:"returnDate"`
	Note           string `json:"note" validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUdhariRequest) ToUseCaseInput() usecase.CreateUdhariInput {
	return usecase.CreateUdhariInput{
		CustomerID:     r.Customer,
		Kind:           r.Kind,
		PrincipalPaise: domain.Paise(r.PrincipalPaise),
		InterestPaise:  domain.Paise(r.InterestPaise),
		TakenDate:      timeOf(r.TakenDate),
		ReturnDate:     optionalTime(r.ReturnDate),
		Note:           r.Note,
	}
}

// UpdateUdhariRequest is an administrative correction of an entry.
type UpdateUdhariRequest struct {
	Kind       *string `json:"kind" validate:"omitempty,max=50"`
	Note       *string `json:"note" validate:"omitempty,max=500"`
	ReturnDate *Date   `json:"returnDate"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUdhariRequest) ToUseCaseInput() usecase.UpdateUdhariInput {
	return usecase.UpdateUdhariInput{
		Kind:       r.Kind,
		Note:       r.Note,
		ReturnDate: optionalTime(r.ReturnDate),
	}
}

// RecordPaymentRequest settles part of an udhari entry.
type RecordPaymentRequest struct {
	Customer       string `json:"customer" validate:"required"`
	PrincipalPaise int64  `json:"principalPaise" validate:"gt=0"`
	SourceRef      string `json:"sourceRef" validate:"required"`
	Note           string `json:"note" validate:"max=500"`
	PaymentDate    *Date  `json:"paymentDate"`
	PaymentMethod  string `json:"paymentMethod" validate:"omitempty,oneof=cash upi bank_transfer cheque other"`
	Reference      string `json:"reference" validate:"max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		CustomerID:     r.Customer,
		SourceRef:      r.SourceRef,
		PrincipalPaise: domain.Paise(r.PrincipalPaise),
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		PaymentDate:    timeOf(r.PaymentDate),
		Reference:      r.Reference,
		Note:           r.Note,
	}
}

// PledgedItemRequest is a piece of jewellery pledged against a loan.
type PledgedItemRequest struct {
	Description string          `json:"description" validate:"max=200"`
	WeightGrams decimal.Decimal `json:"weightGrams"`
	Purity      string          `json:"purity" validate:"required,oneof=24K 22K 18K 14K"`
}

// CreateGoldLoanRequest opens a gold loan.
type CreateGoldLoanRequest struct {
	Customer       string               `json:"customer" validate:"required"`
	PrincipalPaise int64                `json:"principalPaise" validate:"gt=0"`
	InterestRate   decimal.Decimal      `json:"interestRate"`
	InterestType   string               `json:"interestType" validate:"omitempty,oneof=monthly yearly"`
	Items          []PledgedItemRequest `json:"items" validate:"required,min=1,dive"`
	StartDate      *Date                `json:"startDate"`
	DueDate        *Date                `json:"dueDate"`
	Note           string               `json:"note" validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGoldLoanRequest) ToUseCaseInput() usecase.CreateGoldLoanInput {
	items := make([]domain.PledgedItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.PledgedItem{
			Description: it.Description,
			WeightGrams: it.WeightGrams,
			Purity:      domain.Purity(it.Purity),
		}
	}
	return usecase.CreateGoldLoanInput{
		CustomerID:     r.Customer,
		PrincipalPaise: domain.Paise(r.PrincipalPaise),
		InterestRate:   r.InterestRate,
		InterestType:   domain.InterestType(r.InterestType),
		Items:          items,
		StartDate:      timeOf(r.StartDate),
		DueDate:        timeOf(r.DueDate),
		Note:           r.Note,
	}
}

// LoanPaymentRequest is a payment against a gold loan.
type LoanPaymentRequest struct {
	Type           string `json:"type" validate:"required,oneof=interest principal both"`
	AmountPaise    int64  `json:"amountPaise" validate:"gt=0"`
	PrincipalPaise int64  `json:"principalPaise" validate:"gte=0"`
	InterestPaise  int64  `json:"interestPaise" validate:"gte=0"`
	PaymentMethod  string `json:"paymentMethod" validate:"omitempty,oneof=cash upi bank_transfer cheque other"`
	PaymentDate    *Date  `json:"paymentDate"`
	Note           string `json:"note" validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *LoanPaymentRequest) ToUseCaseInput(loanID string) usecase.AddLoanPaymentInput {
	return usecase.AddLoanPaymentInput{
		LoanID:         loanID,
		Type:           domain.LoanPaymentType(r.Type),
		AmountPaise:    domain.Paise(r.AmountPaise),
		PrincipalPaise: domain.Paise(r.PrincipalPaise),
		InterestPaise:  domain.Paise(r.InterestPaise),
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		PaymentDate:    timeOf(r.PaymentDate),
		Note:           r.Note,
	}
}

// CreateTransactionRequest records a business transaction.
type CreateTransactionRequest struct {
	Customer         string              `json:"customer" validate:"required"`
	LoanID           *string             `json:"loanId"`
	Type             string              `json:"type" validate:"required,oneof=loan_given interest_received repayment gold_sale silver_sale"`
	AmountPaise      int64               `json:"amountPaise" validate:"gt=0"`
	Date             *Date               `json:"date"`
	Description      string              `json:"description" validate:"max=500"`
	ReceiptNumber    string              `json:"receiptNumber" validate:"max=50"`
	MetalWeightGrams decimal.NullDecimal `json:"metalWeightGrams"`
	Purity           string              `json:"purity" validate:"omitempty,oneof=24K 22K 18K 14K 999 925"`
	RatePerGramPaise int64               `json:"ratePerGramPaise" validate:"gte=0"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		CustomerID:       r.Customer,
		LoanID:           r.LoanID,
		Type:             domain.TransactionType(r.Type),
		AmountPaise:      domain.Paise(r.AmountPaise),
		Date:             timeOf(r.Date),
		Description:      r.Description,
		ReceiptNumber:    r.ReceiptNumber,
		MetalWeightGrams: r.MetalWeightGrams,
		Purity:           domain.Purity(r.Purity),
		RatePerGramPaise: domain.Paise(r.RatePerGramPaise),
	}
}

// CreateExpenseRequest records a business expense.
type CreateExpenseRequest struct {
	Category      string `json:"category" validate:"required,max=50"`
	Subcategory   string `json:"subcategory" validate:"max=50"`
	GrossPaise    int64  `json:"grossPaise" validate:"gt=0"`
	TaxPaise      int64  `json:"taxPaise" validate:"gte=0"`
	NetPaise      int64  `json:"netPaise" validate:"gte=0"`
	Vendor        string `json:"vendor" validate:"max=100"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=paid pending"`
	ExpenseDate   *Date  `json:"expenseDate"`
	Description   string `json:"description" validate:"max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput() usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		Category:      r.Category,
		Subcategory:   r.Subcategory,
		GrossPaise:    domain.Paise(r.GrossPaise),
		TaxPaise:      domain.Paise(r.TaxPaise),
		NetPaise:      domain.Paise(r.NetPaise),
		Vendor:        r.Vendor,
		PaymentStatus: domain.ExpenseStatus(r.PaymentStatus),
		ExpenseDate:   timeOf(r.ExpenseDate),
		Description:   r.Description,
	}
}
