package offer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offerCols = []string{"id", "title", "description", "promo_code", "discount_percent", "image_url", "is_active", "valid_from", "valid_until", "created_at"}

func TestPostgresListLive_ScansNullableWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	until := fixedNow.Add(24 * time.Hour)
	rows := sqlmock.NewRows(offerCols).
		AddRow(2, "Weekend", "", "WKND", "15.00", "", true, nil, until, fixedNow).
		AddRow(1, "Always", "", "", "0", "", true, nil, nil, fixedNow)
	mock.ExpectQuery("FROM offers").WithArgs(fixedNow, 10).WillReturnRows(rows)

	offers, err := repo.ListLive(context.Background(), fixedNow, 10)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Nil(t, offers[0].ValidFrom)
	require.NotNil(t, offers[0].ValidUntil)
	assert.True(t, offers[0].ValidUntil.Equal(until))
	assert.Equal(t, "15", offers[0].DiscountPercent.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetActive_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE offers").WithArgs(false, 8).WillReturnError(sql.ErrNoRows)

	_, err = repo.SetActive(context.Background(), 8, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
