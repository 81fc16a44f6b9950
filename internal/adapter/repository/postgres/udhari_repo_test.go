package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/pawnledger/internal/domain"
)

var (
	udhariCols  = []string{"id", "customer_id", "kind", "principal_paise", "interest_paise", "direction", "taken_date", "return_date", "note", "created_at"}
	paymentCols = []string{"id", "customer_id", "source_ref", "principal_paise", "payment_method", "payment_date", "reference", "note", "created_at"}
)

func TestUdhariRepository_CreateUnknownCustomer(t *testing.T) {
	mock := newMockPool(t)
	repo := newUdhariRepository(mock)

	mock.ExpectExec("INSERT INTO udhari_entries").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: "udhari_entries_customer_id_fkey"})

	err := repo.Create(context.Background(), &domain.UdhariEntry{ID: "u1", CustomerID: "nobody", Direction: domain.DirectionReceivable})
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestUdhariRepository_ListByCustomer(t *testing.T) {
	mock := newMockPool(t)
	repo := newUdhariRepository(mock)
	taken := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM udhari_entries WHERE customer_id = $1")).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(udhariCols).
			AddRow("u1", "c1", "udhari", int64(500000), int64(0), int16(1), taken, &due, "wedding", taken).
			AddRow("u2", "c1", "udhari", int64(30000), int64(0), int16(-1), taken, nil, "", taken))

	entries, err := repo.ListByCustomer(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Direction != domain.DirectionReceivable || entries[0].PrincipalPaise != 500000 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].ReturnDate == nil || !entries[0].ReturnDate.Equal(due) {
		t.Errorf("expected return date %v, got %v", due, entries[0].ReturnDate)
	}
	if entries[1].Direction != domain.DirectionPayable || entries[1].ReturnDate != nil {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestUdhariRepository_ListByDirection(t *testing.T) {
	mock := newMockPool(t)
	repo := newUdhariRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE direction = $1")).
		WithArgs(int16(-1)).
		WillReturnRows(pgxmock.NewRows(udhariCols))
	mock.ExpectQuery(regexp.QuoteMeta("FROM udhari_entries ORDER BY")).
		WillReturnRows(pgxmock.NewRows(udhariCols))

	if _, err := repo.ListByDirection(context.Background(), domain.DirectionPayable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.ListByDirection(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, mock)
}

func TestUdhariRepository_UpdateMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := newUdhariRepository(mock)

	mock.ExpectExec("UPDATE udhari_entries").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.UdhariEntry{ID: "missing", Kind: "udhari"})
	if !errors.Is(err, domain.ErrUdhariNotFound) {
		t.Fatalf("expected ErrUdhariNotFound, got %v", err)
	}
}

func TestPaymentRepository_CreateUnknownSource(t *testing.T) {
	mock := newMockPool(t)
	repo := newPaymentRepository(mock)

	mock.ExpectExec("INSERT INTO udhari_payments").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: "udhari_payments_source_ref_fkey"})

	err := repo.Create(context.Background(), &domain.Payment{ID: "p1", SourceRef: "ghost", PrincipalPaise: 100})
	if !errors.Is(err, domain.ErrPaymentSourceMissing) {
		t.Fatalf("expected ErrPaymentSourceMissing, got %v", err)
	}
}

func TestPaymentRepository_ListBySources(t *testing.T) {
	mock := newMockPool(t)
	repo := newPaymentRepository(mock)
	paid := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE source_ref = ANY($1)")).
		WithArgs([]string{"u1", "u2"}).
		WillReturnRows(pgxmock.NewRows(paymentCols).
			AddRow("p1", "c1", "u1", int64(200000), "upi", paid, "UTR123", "", paid))

	payments, err := repo.ListBySources(context.Background(), []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 1 || payments[0].PaymentMethod != domain.PaymentMethodUPI || payments[0].PrincipalPaise != 200000 {
		t.Fatalf("unexpected payments: %+v", payments)
	}

	// no sources means no query
	empty, err := repo.ListBySources(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %v / %v", empty, err)
	}
	assertExpectations(t, mock)
}
