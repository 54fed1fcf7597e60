package models

import (
	"time"
)

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Product is one sellable catalog item. Price is stored in the store's base
// currency (USD); display conversion happens at reply-building time.
type Product struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Price        *float64       `db:"price"`
	Stock        int            `db:"stock"`
	CategoryID   *int64         `db:"category_id"`
	Features     map[string]any `db:"features"` // arbitrary spec-sheet key/value pairs (JSONB)
	RatingNumber int            `db:"rating_number"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

// ScoredProduct is a similarity-search hit. Score is cosine similarity in [0,1].
type ScoredProduct struct {
	Product Product
	Score   float64
}

// IndexSource holds the four semantically relevant fields an item's embedding
// is derived from. The embedding is stale whenever any of them changes.
type IndexSource struct {
	ID           int64
	Title        string
	Description  string
	CategoryName string
	Features     map[string]any
}
