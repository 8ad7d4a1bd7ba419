package models

import "time"

// Movie is a title imported from the catalog into the personal list.
// Rating and Review stay nil until the movie is rated.
type Movie struct {
	ID          int64     `json:"id"`
	ExternalID  int64     `json:"external_id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating"`
	Ranking     int       `json:"ranking"`
	Review      *string   `json:"review"`
	ImageURL    string    `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m Movie) IsRated() bool {
	return m.Rating != nil
}

// SetReview records a rating and its review together.
func (m *Movie) SetReview(rating float64, review string) {
	m.Rating = &rating
	m.Review = &review
}
