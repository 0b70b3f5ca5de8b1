package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrServiceNotFound = errors.New("service not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const serviceColumns = `id, slug, name, description, category, price_cents, durations_minutes, benefits, image_url, active, created_at`

func (r *repository) Create(ctx context.Context, req CreateServiceRequest) (*Service, error) {
	query := `
		INSERT INTO services (slug, name, description, category, price_cents, durations_minutes, benefits, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + serviceColumns

	var service Service
	err := r.db.GetContext(ctx, &service, query,
		req.Slug, req.Name, req.Description, req.Category, req.PriceCents,
		pq.Int64Array(req.DurationsMinutes), pq.StringArray(req.Benefits), req.ImageURL)
	if err != nil {
		return nil, err
	}

	return &service, nil
}

func (r *repository) GetAll(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY category ASC, name ASC`

	var services []Service
	err := r.db.SelectContext(ctx, &services, query)
	if err != nil {
		return nil, err
	}

	return services, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var service Service
	err := r.db.GetContext(ctx, &service, query, id)
	if err != nil {
		return nil, err
	}

	return &service, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = $1`

	var service Service
	err := r.db.GetContext(ctx, &service, query, slug)
	if err != nil {
		return nil, err
	}

	return &service, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateServiceRequest) (*Service, error) {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.PriceCents != nil {
		add("price_cents", *req.PriceCents)
	}
	if req.DurationsMinutes != nil {
		add("durations_minutes", pq.Int64Array(*req.DurationsMinutes))
	}
	if req.Benefits != nil {
		add("benefits", pq.StringArray(*req.Benefits))
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}
	if req.Active != nil {
		add("active", *req.Active)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE services SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)+1, serviceColumns)
	args = append(args, id)

	var service Service
	err := r.db.GetContext(ctx, &service, query, args...)
	if err != nil {
		return nil, err
	}

	return &service, nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE services SET active = false WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}
