package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Service is a bookable studio offering: an ice bath session, a sauna block,
// a spa treatment. Benefits and durations are admin-editable lists rendered
// on the marketing pages.
type Service struct {
	ID               int            `db:"id" json:"id"`
	Slug             string         `db:"slug" json:"slug"`
	Name             string         `db:"name" json:"name"`
	Description      string         `db:"description" json:"description"`
	Category         string         `db:"category" json:"category"`
	PriceCents       int64          `db:"price_cents" json:"price_cents"`
	DurationsMinutes pq.Int64Array  `db:"durations_minutes" json:"durations_minutes"`
	Benefits         pq.StringArray `db:"benefits" json:"benefits"`
	ImageURL         string         `db:"image_url" json:"image_url"`
	Active           bool           `db:"active" json:"active"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

type CreateServiceRequest struct {
	Slug             string   `json:"slug" binding:"required"`
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Category         string   `json:"category" binding:"required"`
	PriceCents       int64    `json:"price_cents" binding:"required,min=0"`
	DurationsMinutes []int64  `json:"durations_minutes"`
	Benefits         []string `json:"benefits"`
	ImageURL         string   `json:"image_url"`
}

type UpdateServiceRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	Category         *string   `json:"category"`
	PriceCents       *int64    `json:"price_cents"`
	DurationsMinutes *[]int64  `json:"durations_minutes"`
	Benefits         *[]string `json:"benefits"`
	ImageURL         *string   `json:"image_url"`
	Active           *bool     `json:"active"`
}
