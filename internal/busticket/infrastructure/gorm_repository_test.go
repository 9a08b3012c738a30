package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
)

var entryColumns = []string{"id", "user_id", "booking_id", "payment_id", "step", "outcome", "error", "updated_at"}

func newMockJournal(t *testing.T) (domain.CheckoutJournal, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormCheckoutJournal(db, pkgApp.NopLogger{}), mock
}

func TestGormCheckoutJournal_SaveUpserts(t *testing.T) {
	journal, mock := newMockJournal(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "checkout_entries".*ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := journal.Save(context.Background(), domain.CheckoutEntry{
		ID:        "co-1",
		UserID:    42,
		BookingID: 101,
		Step:      domain.StepSubmitBooking,
		Outcome:   domain.OutcomePending,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutJournal_SaveFailure(t *testing.T) {
	journal, mock := newMockJournal(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "checkout_entries"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := journal.Save(context.Background(), domain.CheckoutEntry{ID: "co-1", Step: domain.StepCheckout})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutJournal_FindByID(t *testing.T) {
	journal, mock := newMockJournal(t)
	updated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "checkout_entries" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow("co-1", 42, 101, 501, "checkout", "Completed", "", updated))

	entry, err := journal.FindByID(context.Background(), "co-1")

	require.NoError(t, err)
	assert.Equal(t, "co-1", entry.ID)
	assert.Equal(t, int64(101), entry.BookingID)
	assert.Equal(t, int64(501), entry.PaymentID)
	assert.Equal(t, domain.StepCheckout, entry.Step)
	assert.Equal(t, domain.OutcomeCompleted, entry.Outcome)
	assert.True(t, updated.Equal(entry.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutJournal_FindByIDNotFound(t *testing.T) {
	journal, mock := newMockJournal(t)

	mock.ExpectQuery(`SELECT \* FROM "checkout_entries" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(entryColumns))

	_, err := journal.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCheckoutJournal_FindUnresolved(t *testing.T) {
	journal, mock := newMockJournal(t)
	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "checkout_entries" WHERE outcome = \$1 ORDER BY updated_at`).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow("co-1", 42, 101, 0, "compensate", "Unresolved", "backend down", first).
			AddRow("co-2", 7, 202, 0, "compensate", "Unresolved", "timeout", first.Add(time.Minute)))

	entries, err := journal.FindUnresolved(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "co-1", entries[0].ID)
	assert.Equal(t, "backend down", entries[0].Error)
	assert.Equal(t, domain.OutcomeUnresolved, entries[1].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}
