package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pawnledger/internal/domain"
	"github.com/iho/pawnledger/internal/usecase"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	// Fields lists failed request fields and the rule each one broke.
	Fields map[string]string `json:"fields,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail builds an error envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// Money is an amount in paise with its rupee rendering.
type Money struct {
	Paise  int64  `json:"paise"`
	Rupees string `json:"rupees"`
}

// MoneyOf renders p.
func MoneyOf(p domain.Paise) Money {
	return Money{Paise: int64(p), Rupees: p.String()}
}

// AddressResponse is a postal address.
type AddressResponse struct {
	Line1   string `json:"line1,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID                                 string          `json:"id"`
	Name                               string          `json:"name"`
	Phone                              string          `json:"phone,omitempty"`
	Email                              string          `json:"email,omitempty"`
	Address                            AddressResponse `json:"address"`
	Status                             string          `json:"status"`
	TotalAmountTakenFromJewellersPaise int64           `json:"totalAmountTakenFromJewellersPaise"`
	TotalAmountTakenByUsPaise          int64           `json:"totalAmountTakenByUsPaise"`
	CreatedAt                          time.Time       `json:"createdAt"`
	UpdatedAt                          time.Time       `json:"updatedAt"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Phone: c.Phone,
		Email: c.Email,
		Address: AddressResponse{
			Line1:   c.Address.Line1,
			City:    c.Address.City,
			State:   c.Address.State,
			Pincode: c.Address.Pincode,
		},
		Status:                             string(c.Status),
		TotalAmountTakenFromJewellersPaise: int64(c.TotalAmountTakenFromJewellers),
		TotalAmountTakenByUsPaise:          int64(c.TotalAmountTakenByUs),
		CreatedAt:                          c.CreatedAt,
		UpdatedAt:                          c.UpdatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// CustomerPageResponse is one page of a customer listing.
type CustomerPageResponse struct {
	Items []*CustomerResponse `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// CustomerPageFromUseCase converts a customer page.
func CustomerPageFromUseCase(p *usecase.CustomerPage) *CustomerPageResponse {
	return &CustomerPageResponse{
		Items: CustomersFromDomain(p.Items),
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}
}

// OutstandingResponse is the derived balance of an instrument.
type OutstandingResponse struct {
	PrincipalPaise    int64           `json:"principalPaise"`
	PaidPaise         int64           `json:"paidPaise"`
	OutstandingPaise  int64           `json:"outstandingPaise"`
	OutstandingRupees string          `json:"outstandingRupees"`
	ExcessPaise       int64           `json:"excessPaise"`
	Overpaid          bool            `json:"overpaid"`
	CompletionPercent decimal.Decimal `json:"completionPercent"`
}

// OutstandingFromDomain converts a balance.
func OutstandingFromDomain(o domain.Outstanding) OutstandingResponse {
	return OutstandingResponse{
		PrincipalPaise:    int64(o.PrincipalPaise),
		PaidPaise:         int64(o.PaidPaise),
		OutstandingPaise:  int64(o.OutstandingPaise),
		OutstandingRupees: o.OutstandingPaise.String(),
		ExcessPaise:       int64(o.ExcessPaise),
		Overpaid:          o.Overpaid,
		CompletionPercent: o.CompletionPercent,
	}
}

// UdhariResponse represents an udhari entry in API responses.
type UdhariResponse struct {
	ID             string               `json:"id"`
	CustomerID     string               `json:"customer"`
	Kind           string               `json:"kind"`
	PrincipalPaise int64                `json:"principalPaise"`
	InterestPaise  int64                `json:"interestPaise"`
	Direction      int                  `json:"direction"`
	TakenDate      time.Time            `json:"takenDate"`
	ReturnDate     *time.Time           `json:"returnDate,omitempty"`
	Note           string               `json:"note,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	Balance        *OutstandingResponse `json:"balance,omitempty"`
}

// UdhariFromDomain converts a domain entry to a response.
func UdhariFromDomain(e *domain.UdhariEntry) *UdhariResponse {
	return &UdhariResponse{
		ID:             e.ID,
		CustomerID:     e.CustomerID,
		Kind:           e.Kind,
		PrincipalPaise: int64(e.PrincipalPaise),
		InterestPaise:  int64(e.InterestPaise),
		Direction:      int(e.Direction),
		TakenDate:      e.TakenDate,
		ReturnDate:     e.ReturnDate,
		Note:           e.Note,
		CreatedAt:      e.CreatedAt,
	}
}

// EntryBalanceFromUseCase converts an entry together with its balance.
func EntryBalanceFromUseCase(b usecase.EntryBalance) *UdhariResponse {
	resp := UdhariFromDomain(b.Entry)
	out := OutstandingFromDomain(b.Outstanding)
	resp.Balance = &out
	return resp
}

// EntryBalancesFromUseCase converts a list of balanced entries.
func EntryBalancesFromUseCase(views []usecase.EntryBalance) []*UdhariResponse {
	result := make([]*UdhariResponse, len(views))
	for i, v := range views {
		result[i] = EntryBalanceFromUseCase(v)
	}
	return result
}

// GroupSummaryResponse totals one side of a customer's book.
type GroupSummaryResponse struct {
	TotalOutstandingPaise  int64  `json:"totalOutstandingPaise"`
	TotalOutstandingRupees string `json:"totalOutstandingRupees"`
	TotalOriginalPaise     int64  `json:"totalOriginalPaise"`
	TotalOriginalRupees    string `json:"totalOriginalRupees"`
	InstrumentCount        int    `json:"instrumentCount"`
}

func groupSummary(g domain.GroupSummary) GroupSummaryResponse {
	return GroupSummaryResponse{
		TotalOutstandingPaise:  int64(g.TotalOutstanding),
		TotalOutstandingRupees: g.TotalOutstanding.String(),
		TotalOriginalPaise:     int64(g.TotalOriginal),
		TotalOriginalRupees:    g.TotalOriginal.String(),
		InstrumentCount:        g.InstrumentCount,
	}
}

// CustomerSummaryResponse is a customer's receivable/payable split.
type CustomerSummaryResponse struct {
	CustomerID string               `json:"customer"`
	Receivable GroupSummaryResponse `json:"receivable"`
	Payable    GroupSummaryResponse `json:"payable"`
	NetPaise   int64                `json:"netPaise"`
	NetRupees  string               `json:"netRupees"`
}

// CustomerSummaryFromDomain converts a customer summary.
func CustomerSummaryFromDomain(s domain.CustomerSummary) CustomerSummaryResponse {
	return CustomerSummaryResponse{
		CustomerID: s.CustomerID,
		Receivable: groupSummary(s.Receivable),
		Payable:    groupSummary(s.Payable),
		NetPaise:   int64(s.Net()),
		NetRupees:  s.Net().String(),
	}
}

// CustomerUdhariResponse lists a customer's entries with their summary.
type CustomerUdhariResponse struct {
	Entries []*UdhariResponse       `json:"entries"`
	Summary CustomerSummaryResponse `json:"summary"`
}

// PaymentResponse represents an udhari payment.
type PaymentResponse struct {
	ID             string    `json:"id"`
	CustomerID     string    `json:"customer"`
	SourceRef      string    `json:"sourceRef"`
	PrincipalPaise int64     `json:"principalPaise"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentDate    time.Time `json:"paymentDate"`
	Reference      string    `json:"reference,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PaymentFromDomain converts a payment.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		CustomerID:     p.CustomerID,
		SourceRef:      p.SourceRef,
		PrincipalPaise: int64(p.PrincipalPaise),
		PaymentMethod:  string(p.PaymentMethod),
		PaymentDate:    p.PaymentDate,
		Reference:      p.Reference,
		Note:           p.Note,
		CreatedAt:      p.CreatedAt,
	}
}

// PaymentsFromDomain converts payments.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// PaymentResultResponse is a recorded payment with the balance after it.
type PaymentResultResponse struct {
	Payment *PaymentResponse    `json:"payment"`
	Balance OutstandingResponse `json:"balance"`
}

// PaymentResultFromUseCase converts a payment result.
func PaymentResultFromUseCase(r *usecase.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		Payment: PaymentFromDomain(r.Payment),
		Balance: OutstandingFromDomain(r.Outstanding),
	}
}

// CustomerOutstandingResponse is one row of an outstanding report.
type CustomerOutstandingResponse struct {
	CustomerID        string `json:"customer"`
	CustomerName      string `json:"customerName,omitempty"`
	OutstandingPaise  int64  `json:"outstandingPaise"`
	OutstandingRupees string `json:"outstandingRupees"`
	OriginalPaise     int64  `json:"originalPaise"`
	EntryCount        int    `json:"entryCount"`
}

// OutstandingReportResponse is the outstanding report of one side of the book.
type OutstandingReportResponse struct {
	CustomerWise []CustomerOutstandingResponse `json:"customerWise"`
	TotalPaise   int64                         `json:"totalPaise"`
	TotalRupees  string                        `json:"totalRupees"`
}

// OutstandingReportFromUseCase converts an outstanding report.
func OutstandingReportFromUseCase(r *usecase.OutstandingReport) *OutstandingReportResponse {
	rows := make([]CustomerOutstandingResponse, len(r.CustomerWise))
	for i, c := range r.CustomerWise {
		rows[i] = CustomerOutstandingResponse{
			CustomerID:        c.CustomerID,
			CustomerName:      c.CustomerName,
			OutstandingPaise:  int64(c.OutstandingPaise),
			OutstandingRupees: c.OutstandingPaise.String(),
			OriginalPaise:     int64(c.OriginalPaise),
			EntryCount:        c.EntryCount,
		}
	}
	return &OutstandingReportResponse{
		CustomerWise: rows,
		TotalPaise:   int64(r.TotalPaise),
		TotalRupees:  r.TotalPaise.String(),
	}
}

// BusinessSummaryResponse is the shop-wide udhari position.
type BusinessSummaryResponse struct {
	TotalToCollect  Money `json:"totalToCollect"`
	TotalToPay      Money `json:"totalToPay"`
	NetPosition     Money `json:"netPosition"`
	CustomerCount   int   `json:"customerCount"`
	ReceivableCount int   `json:"receivableCount"`
	PayableCount    int   `json:"payableCount"`
}

// BusinessSummaryFromDomain converts a business summary.
func BusinessSummaryFromDomain(s domain.BusinessSummary) BusinessSummaryResponse {
	return BusinessSummaryResponse{
		TotalToCollect:  MoneyOf(s.TotalToCollect),
		TotalToPay:      MoneyOf(s.TotalToPay),
		NetPosition:     MoneyOf(s.NetPosition),
		CustomerCount:   s.CustomerCount,
		ReceivableCount: s.ReceivableCount,
		PayableCount:    s.PayableCount,
	}
}

// PledgedItemResponse is a pledged piece of jewellery.
type PledgedItemResponse struct {
	Description string          `json:"description,omitempty"`
	WeightGrams decimal.Decimal `json:"weightGrams"`
	Purity      string          `json:"purity"`
}

// LoanPaymentResponse is a payment against a gold loan.
type LoanPaymentResponse struct {
	ID             string    `json:"id"`
	LoanID         string    `json:"loanId"`
	Type           string    `json:"type"`
	AmountPaise    int64     `json:"amountPaise"`
	PrincipalPaise int64     `json:"principalPaise"`
	InterestPaise  int64     `json:"interestPaise"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentDate    time.Time `json:"paymentDate"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LoanPaymentFromDomain converts a gold loan payment.
func LoanPaymentFromDomain(p *domain.GoldLoanPayment) *LoanPaymentResponse {
	return &LoanPaymentResponse{
		ID:             p.ID,
		LoanID:         p.LoanID,
		Type:           string(p.Type),
		AmountPaise:    int64(p.AmountPaise),
		PrincipalPaise: int64(p.PrincipalPaise),
		InterestPaise:  int64(p.InterestPaise),
		PaymentMethod:  string(p.PaymentMethod),
		PaymentDate:    p.PaymentDate,
		Note:           p.Note,
		CreatedAt:      p.CreatedAt,
	}
}

// GoldLoanResponse represents a gold loan in API responses.
type GoldLoanResponse struct {
	ID               string                 `json:"id"`
	CustomerID       string                 `json:"customer"`
	PrincipalPaise   int64                  `json:"principalPaise"`
	InterestRate     decimal.Decimal        `json:"interestRate"`
	InterestType     string                 `json:"interestType"`
	Items            []PledgedItemResponse  `json:"items"`
	TotalWeightGrams decimal.Decimal        `json:"totalWeightGrams"`
	StartDate        time.Time              `json:"startDate"`
	DueDate          *time.Time             `json:"dueDate,omitempty"`
	Status           string                 `json:"status"`
	Payments         []*LoanPaymentResponse `json:"payments"`
	Note             string                 `json:"note,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`

	Balance               *OutstandingResponse `json:"balance,omitempty"`
	AccruedInterestPaise  *int64               `json:"accruedInterestPaise,omitempty"`
	PendingInterestPaise  *int64               `json:"pendingInterestPaise,omitempty"`
	PendingInterestRupees string               `json:"pendingInterestRupees,omitempty"`
}

// GoldLoanFromDomain converts a domain loan to a response.
func GoldLoanFromDomain(l *domain.GoldLoan) *GoldLoanResponse {
	items := make([]PledgedItemResponse, len(l.Items))
	for i, it := range l.Items {
		items[i] = PledgedItemResponse{
			Description: it.Description,
			WeightGrams: it.WeightGrams,
			Purity:      string(it.Purity),
		}
	}
	payments := make([]*LoanPaymentResponse, len(l.Payments))
	for i := range l.Payments {
		payments[i] = LoanPaymentFromDomain(&l.Payments[i])
	}

	resp := &GoldLoanResponse{
		ID:               l.ID,
		CustomerID:       l.CustomerID,
		PrincipalPaise:   int64(l.PrincipalPaise),
		InterestRate:     l.InterestRate,
		InterestType:     string(l.InterestType),
		Items:            items,
		TotalWeightGrams: l.TotalWeight(),
		StartDate:        l.StartDate,
		Status:           string(l.Status),
		Payments:         payments,
		Note:             l.Note,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	if !l.DueDate.IsZero() {
		due := l.DueDate
		resp.DueDate = &due
	}
	return resp
}

// LoanViewFromUseCase converts a loan with its derived balance and interest.
func LoanViewFromUseCase(v *usecase.LoanView) *GoldLoanResponse {
	resp := GoldLoanFromDomain(v.Loan)
	out := OutstandingFromDomain(v.Outstanding)
	accrued := int64(v.AccruedInterest)
	pending := int64(v.PendingInterest)
	resp.Balance = &out
	resp.AccruedInterestPaise = &accrued
	resp.PendingInterestPaise = &pending
	resp.PendingInterestRupees = v.PendingInterest.String()
	return resp
}

// LoanViewsFromUseCase converts a list of loan views.
func LoanViewsFromUseCase(views []*usecase.LoanView) []*GoldLoanResponse {
	result := make([]*GoldLoanResponse, len(views))
	for i, v := range views {
		result[i] = LoanViewFromUseCase(v)
	}
	return result
}

// LoanPaymentResultResponse is a recorded loan payment with the loan after it.
type LoanPaymentResultResponse struct {
	Payment *LoanPaymentResponse `json:"payment"`
	Loan    *GoldLoanResponse    `json:"loan"`
}

// InterestStatementResponse is the interest position of a loan.
type InterestStatementResponse struct {
	LoanID                    string    `json:"loanId"`
	AsOf                      time.Time `json:"asOf"`
	ElapsedMonths             int       `json:"elapsedMonths"`
	OutstandingPrincipalPaise int64     `json:"outstandingPrincipalPaise"`
	AccruedInterest           Money     `json:"accruedInterest"`
	InterestPaid              Money     `json:"interestPaid"`
	PendingInterest           Money     `json:"pendingInterest"`
}

// InterestStatementFromUseCase converts an interest statement.
func InterestStatementFromUseCase(s *usecase.InterestStatement) *InterestStatementResponse {
	return &InterestStatementResponse{
		LoanID:                    s.LoanID,
		AsOf:                      s.AsOf,
		ElapsedMonths:             s.ElapsedMonths,
		OutstandingPrincipalPaise: int64(s.OutstandingPrincipal),
		AccruedInterest:           MoneyOf(s.AccruedInterest),
		InterestPaid:              MoneyOf(s.InterestPaid),
		PendingInterest:           MoneyOf(s.PendingInterest),
	}
}

// ReconciliationResultResponse is the outcome of one loan status check.
type ReconciliationResultResponse struct {
	LoanID         string    `json:"loanId"`
	StoredStatus   string    `json:"storedStatus"`
	ComputedStatus string    `json:"computedStatus"`
	Repaired       bool      `json:"repaired"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// ReconciliationReportResponse is the outcome of a full status reconciliation.
type ReconciliationReportResponse struct {
	TotalLoans    int                            `json:"totalLoans"`
	RepairedLoans int                            `json:"repairedLoans"`
	Discrepancies []ReconciliationResultResponse `json:"discrepancies"`
	CheckedAt     time.Time                      `json:"checkedAt"`
}

// ReconciliationReportFromUseCase converts a reconciliation report.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	rows := make([]ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		rows[i] = ReconciliationResultResponse{
			LoanID:         d.LoanID,
			StoredStatus:   string(d.StoredStatus),
			ComputedStatus: string(d.ComputedStatus),
			Repaired:       d.Repaired,
			CheckedAt:      d.CheckedAt,
		}
	}
	return &ReconciliationReportResponse{
		TotalLoans:    r.TotalLoans,
		RepairedLoans: r.RepairedLoans,
		Discrepancies: rows,
		CheckedAt:     r.CheckedAt,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customer"`
	LoanID           *string             `json:"loanId,omitempty"`
	Type             string              `json:"type"`
	AmountPaise      int64               `json:"amountPaise"`
	AmountRupees     string              `json:"amountRupees"`
	Date             time.Time           `json:"date"`
	Description      string              `json:"description,omitempty"`
	ReceiptNumber    string              `json:"receiptNumber,omitempty"`
	MetalWeightGrams decimal.NullDecimal `json:"metalWeightGrams"`
	Purity           string              `json:"purity,omitempty"`
	RatePerGramPaise int64               `json:"ratePerGramPaise,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// TransactionFromDomain converts a transaction.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		CustomerID:       t.CustomerID,
		LoanID:           t.LoanID,
		Type:             string(t.Type),
		AmountPaise:      int64(t.AmountPaise),
		AmountRupees:     t.AmountPaise.String(),
		Date:             t.Date,
		Description:      t.Description,
		ReceiptNumber:    t.ReceiptNumber,
		MetalWeightGrams: t.MetalWeightGrams,
		Purity:           string(t.Purity),
		RatePerGramPaise: int64(t.RatePerGramPaise),
		CreatedAt:        t.CreatedAt,
	}
}

// TransactionsFromDomain converts transactions.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ExpenseResponse represents a business expense.
type ExpenseResponse struct {
	ID            string     `json:"id"`
	Category      string     `json:"category"`
	Subcategory   string     `json:"subcategory,omitempty"`
	GrossPaise    int64      `json:"grossPaise"`
	TaxPaise      int64      `json:"taxPaise"`
	NetPaise      int64      `json:"netPaise"`
	NetRupees     string     `json:"netRupees"`
	Vendor        string     `json:"vendor,omitempty"`
	PaymentStatus string     `json:"paymentStatus"`
	ExpenseDate   time.Time  `json:"expenseDate"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ExpenseFromDomain converts an expense.
func ExpenseFromDomain(e *domain.BusinessExpense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		GrossPaise:    int64(e.GrossPaise),
		TaxPaise:      int64(e.TaxPaise),
		NetPaise:      int64(e.NetPaise),
		NetRupees:     e.NetPaise.String(),
		Vendor:        e.Vendor,
		PaymentStatus: string(e.PaymentStatus),
		ExpenseDate:   e.ExpenseDate,
		PaidAt:        e.PaidAt,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ExpensesFromDomain converts expenses.
func ExpensesFromDomain(expenses []*domain.BusinessExpense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// CategoryTotalResponse is the spend of one category.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Net      Money  `json:"net"`
	Count    int    `json:"count"`
}

// ExpenseSummaryResponse totals a set of expenses.
type ExpenseSummaryResponse struct {
	TotalGross Money                   `json:"totalGross"`
	TotalTax   Money                   `json:"totalTax"`
	TotalNet   Money                   `json:"totalNet"`
	PaidNet    Money                   `json:"paidNet"`
	PendingNet Money                   `json:"pendingNet"`
	Count      int                     `json:"count"`
	ByCategory []CategoryTotalResponse `json:"byCategory"`
}

// ExpenseSummaryFromDomain converts an expense summary.
func ExpenseSummaryFromDomain(s domain.ExpenseSummary) ExpenseSummaryResponse {
	cats := make([]CategoryTotalResponse, len(s.ByCategory))
	for i, c := range s.ByCategory {
		cats[i] = CategoryTotalResponse{Category: c.Category, Net: MoneyOf(c.NetPaise), Count: c.Count}
	}
	return ExpenseSummaryResponse{
		TotalGross: MoneyOf(s.TotalGross),
		TotalTax:   MoneyOf(s.TotalTax),
		TotalNet:   MoneyOf(s.TotalNet),
		PaidNet:    MoneyOf(s.PaidNet),
		PendingNet: MoneyOf(s.PendingNet),
		Count:      s.Count,
		ByCategory: cats,
	}
}

// CustomerLedgerResponse is everything on the books for one customer.
type CustomerLedgerResponse struct {
	Customer *CustomerResponse       `json:"customer"`
	Udhari   []*UdhariResponse       `json:"udhari"`
	Loans    []*GoldLoanResponse     `json:"goldLoans"`
	Summary  CustomerSummaryResponse `json:"summary"`
}

// CustomerLedgerFromUseCase converts a customer ledger.
func CustomerLedgerFromUseCase(l *usecase.CustomerLedger) *CustomerLedgerResponse {
	return &CustomerLedgerResponse{
		Customer: CustomerFromDomain(l.Customer),
		Udhari:   EntryBalancesFromUseCase(l.Udhari),
		Loans:    LoanViewsFromUseCase(l.Loans),
		Summary:  CustomerSummaryFromDomain(l.Summary),
	}
}

// RateResponse is the price of one purity.
type RateResponse struct {
	Purity        string `json:"purity"`
	PerGramPaise  int64  `json:"perGramPaise"`
	PerGramRupees string `json:"perGramRupees"`
}

// PriceQuoteResponse is a snapshot of per-gram metal prices.
type PriceQuoteResponse struct {
	Gold        []RateResponse `json:"gold"`
	Silver      []RateResponse `json:"silver"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Source      string         `json:"source"`
}

func rates(table map[domain.Purity]domain.Paise, order []domain.Purity) []RateResponse {
	out := make([]RateResponse, 0, len(order))
	for _, p := range order {
		rate, ok := table[p]
		if !ok {
			continue
		}
		out = append(out, RateResponse{Purity: string(p), PerGramPaise: int64(rate), PerGramRupees: rate.String()})
	}
	return out
}

// PriceQuoteFromDomain converts a quote, listing purities finest first.
func PriceQuoteFromDomain(q *domain.PriceQuote) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		Gold:        rates(q.Gold.Rates, domain.GoldPurities),
		Silver:      rates(q.Silver.Rates, domain.SilverPurities),
		LastUpdated: q.LastUpdated,
		Source:      string(q.Source),
	}
}

// GoldLoanTotalsResponse is the shop-wide gold loan position.
type GoldLoanTotalsResponse struct {
	ActiveCount          int   `json:"activeCount"`
	OverdueCount         int   `json:"overdueCount"`
	CompletedCount       int   `json:"completedCount"`
	OutstandingPrincipal Money `json:"outstandingPrincipal"`
	PendingInterest      Money `json:"pendingInterest"`
}

// DashboardResponse is the business overview.
type DashboardResponse struct {
	Udhari    BusinessSummaryResponse `json:"udhari"`
	GoldLoans GoldLoanTotalsResponse  `json:"goldLoans"`
	Expenses  ExpenseSummaryResponse  `json:"expenses"`
	AsOf      time.Time               `json:"asOf"`
}

// DashboardFromUseCase converts a dashboard.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		Udhari: BusinessSummaryFromDomain(d.Udhari),
		GoldLoans: GoldLoanTotalsResponse{
			ActiveCount:          d.GoldLoans.ActiveCount,
			OverdueCount:         d.GoldLoans.OverdueCount,
			CompletedCount:       d.GoldLoans.CompletedCount,
			OutstandingPrincipal: MoneyOf(d.GoldLoans.OutstandingPrincipal),
			PendingInterest:      MoneyOf(d.GoldLoans.PendingInterest),
		},
		Expenses: ExpenseSummaryFromDomain(d.Expenses),
		AsOf:     d.AsOf,
	}
}
