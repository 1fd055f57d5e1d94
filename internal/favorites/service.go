// Package favorites manages HAS_FAVORITE relationships between a User and
// the Movie nodes it points at.
package favorites

import (
	"context"
	"fmt"
	"strings"

	"github.com/neoflix/neoflix-api/internal/apperrors"
	"github.com/neoflix/neoflix-api/internal/graph"
	"github.com/neoflix/neoflix-api/internal/models"
)

// Sort keys that may be spliced into ORDER BY. The sort field is a Cypher
// identifier, not a bindable parameter, so anything outside this set falls
// back to the default instead of reaching the query text.
var allowedSorts = map[string]bool{
	"title":      true,
	"released":   true,
	"imdbRating": true,
	"score":      true,
}

const (
	DefaultSort  = "title"
	DefaultOrder = "ASC"
	DefaultLimit = 6
)

// Service lists, adds and removes a user's favorite movies. It shares the
// Runner handle with the other services.
type Service struct {
	runner graph.Runner
}

func NewService(runner graph.Runner) *Service {
	return &Service{runner: runner}
}

// All returns the movies the user has favorited, each annotated
// favorite: true, ordered by the requested movie property. An empty result
// is an empty slice, not an error.
func (s *Service) All(ctx context.Context, userID, sort, order string, limit, skip int) ([]models.Movie, error) {
	if !allowedSorts[sort] {
		sort = DefaultSort
	}
	if order = strings.ToUpper(order); order != "DESC" {
		order = DefaultOrder
	}

	cypher := fmt.Sprintf(`
MATCH (u:User {userId: $userId})-[r:HAS_FAVORITE]->(m:Movie)
RETURN m {
  .*,
  favorite: true
} AS movie
ORDER BY m.`+"`%s`"+` %s
SKIP $skip
LIMIT $limit`, sort, order)

	rows, err := s.runner.ExecuteRead(ctx, cypher, map[string]interface{}{
		"userId": userID,
		"skip":   skip,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		if m, ok := row["movie"].(map[string]interface{}); ok {
			movies = append(movies, models.Movie(graph.NativeMap(m)))
		}
	}
	return movies, nil
}

// Add upserts the favorite edge between the user and the movie. Creating an
// edge that already exists is a no-op; either way the movie comes back
// annotated favorite: true. Zero matched rows means user or movie does not
// exist (callers cannot tell which).
func (s *Service) Add(ctx context.Context, userID, movieID string) (models.Movie, error) {
	rows, err := s.runner.ExecuteWrite(ctx, `
MATCH (u:User {userId: $userId})
MATCH (m:Movie {tmdbId: $movieId})

MERGE (u)-[r:HAS_FAVORITE]->(m)
ON CREATE SET u.createdAt = datetime()

RETURN m {
  .*,
  favorite: true
} AS movie`,
		map[string]interface{}{"userId": userID, "movieId": movieID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(userID, movieID)
	}
	return movieFromRow(rows[0]), nil
}

// Remove deletes the favorite edge and returns the movie annotated
// favorite: false. A missing edge fails with the same NotFoundError as Add.
func (s *Service) Remove(ctx context.Context, userID, movieID string) (models.Movie, error) {
	rows, err := s.runner.ExecuteWrite(ctx, `
MATCH (u:User {userId: $userId})-[r:HAS_FAVORITE]->(m:Movie {tmdbId: $movieId})
DELETE r

RETURN m {
  .*,
  favorite: false
} AS movie`,
		map[string]interface{}{"userId": userID, "movieId": movieID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(userID, movieID)
	}
	return movieFromRow(rows[0]), nil
}

// The "create" wording is shared with Remove on purpose: the original API
// returns this exact message on both paths and clients match on it.
func notFound(userID, movieID string) *apperrors.NotFoundError {
	return apperrors.NewNotFoundError(
		"Couldn't create a favorite relationship for User %s and Movie %s", userID, movieID)
}

func movieFromRow(row map[string]interface{}) models.Movie {
	if m, ok := row["movie"].(map[string]interface{}); ok {
		return models.Movie(graph.NativeMap(m))
	}
	return models.Movie{}
}
