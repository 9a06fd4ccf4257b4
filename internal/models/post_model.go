package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	ProductID *int64         `db:"product_id" json:"product_id"`
	Content   string         `db:"content" json:"content"`
	ImageURLs pq.StringArray `db:"image_urls" json:"image_urls"`
	Hashtags  pq.StringArray `db:"hashtags" json:"hashtags"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

type Product struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       string    `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type AffiliateLink struct {
	ID          int64     `db:"id" json:"id"`
	ProductID   int64     `db:"product_id" json:"product_id"`
	ShortCode   string    `db:"short_code" json:"short_code"`
	OriginalURL string    `db:"original_url" json:"original_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type LinkClick struct {
	ID              int64     `db:"id" json:"id"`
	AffiliateLinkID int64     `db:"affiliate_link_id" json:"affiliate_link_id"`
	PostID          *int64    `db:"post_id" json:"post_id"`
	Referrer        string    `db:"referrer" json:"referrer"`
	UserAgent       string    `db:"user_agent" json:"user_agent"`
	IPAddress       string    `db:"ip_address" json:"ip_address"`
	ClickedAt       time.Time `db:"clicked_at" json:"clicked_at"`
}
