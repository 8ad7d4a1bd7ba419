package services

import "github.com/oliwiasala/movie-list/models"

// AssignRanks numbers movies 1..n in the order given. The slice is expected
// to already be sorted best first.
func AssignRanks(movies []models.Movie) []models.Movie {
	for i := range movies {
		movies[i].Ranking = i + 1
	}
	return movies
}
