package transfer

type ScheduleCreation struct {
	PostID      int64  `json:"post_id"`
	Platform    string `json:"sns_platform"`
	ScheduledAt string `json:"scheduled_at"`
}

type PostCreation struct {
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	ProductID *int64   `json:"product_id"`
}

type LinkCreation struct {
	ProductID   int64  `json:"product_id"`
	OriginalURL string `json:"original_url"`
}

type ProductCreation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}
