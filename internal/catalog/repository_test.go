package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func serviceRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "slug", "name", "description", "category", "price_cents",
		"durations_minutes", "benefits", "image_url", "active", "created_at",
	})
}

func TestCreateService(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO services`).
		WithArgs("ice-bath", "Ice Bath", "Cold plunge session", "recovery", int64(3500),
			pq.Int64Array{10, 15}, pq.StringArray{"Reduces inflammation"}, "").
		WillReturnRows(serviceRows().
			AddRow(1, "ice-bath", "Ice Bath", "Cold plunge session", "recovery", int64(3500),
				"{10,15}", `{"Reduces inflammation"}`, "", true, time.Now()))

	service, err := repo.Create(context.Background(), CreateServiceRequest{
		Slug:             "ice-bath",
		Name:             "Ice Bath",
		Description:      "Cold plunge session",
		Category:         "recovery",
		PriceCents:       3500,
		DurationsMinutes: []int64{10, 15},
		Benefits:         []string{"Reduces inflammation"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, service.ID)
	assert.Equal(t, pq.Int64Array{10, 15}, service.DurationsMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_ActiveOnly(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM services WHERE active = true`).
		WillReturnRows(serviceRows().
			AddRow(1, "ice-bath", "Ice Bath", "", "recovery", int64(3500), "{10}", "{}", "", true, time.Now()))

	services, err := repo.GetAll(context.Background(), true)
	assert.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, "ice-bath", services[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlug(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM services WHERE slug`).
		WithArgs("sauna").
		WillReturnRows(serviceRows().
			AddRow(2, "sauna", "Infrared Sauna", "", "spa", int64(4500), "{30,45}", "{}", "", true, time.Now()))

	service, err := repo.GetBySlug(context.Background(), "sauna")
	assert.NoError(t, err)
	assert.Equal(t, "Infrared Sauna", service.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_PartialFields(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`UPDATE services SET name = \$1, price_cents = \$2 WHERE id = \$3`).
		WithArgs("Cold Plunge", int64(4000), 1).
		WillReturnRows(serviceRows().
			AddRow(1, "ice-bath", "Cold Plunge", "", "recovery", int64(4000), "{10}", "{}", "", true, time.Now()))

	name := "Cold Plunge"
	price := int64(4000)
	service, err := repo.Update(context.Background(), 1, UpdateServiceRequest{
		Name:       &name,
		PriceCents: &price,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Cold Plunge", service.Name)
	assert.Equal(t, int64(4000), service.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_NotFound(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectExec(`UPDATE services SET active = false`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), 999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
