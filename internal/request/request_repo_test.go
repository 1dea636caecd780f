package request

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Statements issued through WithTx must run on the handed transaction,
// never on the pooled connection, so a rollback undoes them.
func TestRequestRepository_WithTxJoinsTransaction(t *testing.T) {
	baseDB, baseMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { baseDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: baseDB}), &gorm.Config{})
	assert.NoError(t, err)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { txDB.Close() })

	txMock.ExpectBegin()
	txMock.ExpectExec(`UPDATE "requests"`).WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB)
	err = repo.WithTx(tx).UpdateFields(context.Background(), uuid.New(), map[string]any{"status": StatusApproved})
	assert.NoError(t, err)

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, txMock.ExpectationsWereMet())
	// The pooled connection saw no statement at all.
	assert.NoError(t, baseMock.ExpectationsWereMet())
}
