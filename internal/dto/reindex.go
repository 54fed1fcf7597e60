package dto

type ReindexProductResponse struct {
	ProductID int64  `json:"product_id"`
	Status    string `json:"status"`
}

type ReindexAllResponse struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}
