package contact

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreate_ReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO contact_messages").
		WithArgs("Ann", "ann@example.com", "", "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	m, err := repo.Create(context.Background(), Message{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 11, m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
