package models

// TourStats is the result of the tour statistics aggregation, either over
// all tours or grouped by difficulty.
type TourStats struct {
	Difficulty string  `json:"difficulty,omitempty" bson:"_id,omitempty"`
	NumTours   int     `json:"num_tours" bson:"num_tours"`
	NumRatings int     `json:"num_ratings" bson:"num_ratings"`
	AvgRating  float64 `json:"avg_rating" bson:"avg_rating"`
	AvgPrice   float64 `json:"avg_price" bson:"avg_price"`
	MinPrice   float64 `json:"min_price" bson:"min_price"`
	MaxPrice   float64 `json:"max_price" bson:"max_price"`
}

// MonthlyPlanEntry counts the tours starting in one month of a year.
type MonthlyPlanEntry struct {
	Month         int      `json:"month" bson:"month"`
	NumTourStarts int      `json:"num_tour_starts" bson:"num_tour_starts"`
	Tours         []string `json:"tours" bson:"tours"`
}

// TourDistance pairs a tour with its distance from a query point.
type TourDistance struct {
	ID       interface{} `json:"id" bson:"_id"`
	Name     string      `json:"name" bson:"name"`
	Distance float64     `json:"distance" bson:"distance"`
}
