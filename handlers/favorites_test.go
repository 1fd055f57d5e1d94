package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"

	"github.com/neoflix/neoflix-api/internal/favorites"
	"github.com/neoflix/neoflix-api/internal/tokens"
	"github.com/neoflix/neoflix-api/pkg/middleware"
)

func favoritesRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewFavoriteHandler(favorites.NewService(runner))
	h.Register(r.Group("/api", middleware.Auth(testSecret)))
	return r
}

func bearerRequest(method, path string) *http.Request {
	token, _ := tokens.Sign(testSecret, jwt.MapClaims{"sub": "user-1", "userId": "user-1", "name": "Graham"})
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func favoriteMovieRow(title string, favorite bool) map[string]interface{} {
	return map[string]interface{}{"movie": map[string]interface{}{
		"tmdbId":   "862",
		"title":    title,
		"released": dbtype.Date(time.Date(1995, 11, 22, 0, 0, 0, 0, time.UTC)),
		"favorite": favorite,
	}}
}

func TestFavoritesRequireAuth(t *testing.T) {
	r := favoritesRouter(&fakeRunner{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/account/favorites", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoritesList(t *testing.T) {
	runner := &fakeRunner{readRows: []map[string]interface{}{
		favoriteMovieRow("Casino", true),
		favoriteMovieRow("Toy Story", true),
	}}
	r := favoritesRouter(runner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("GET", "/api/account/favorites?limit=2&skip=0&sort=title&order=ASC"))
	assert.Equal(t, http.StatusOK, w.Code)

	var got []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, true, got[0]["favorite"])
	assert.Equal(t, "1995-11-22", got[0]["released"])

	// identity comes from the token, not from the request
	assert.Equal(t, "user-1", runner.lastParams["userId"])
	assert.Equal(t, 2, runner.lastParams["limit"])
}

func TestFavoritesListEmpty(t *testing.T) {
	r := favoritesRouter(&fakeRunner{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("GET", "/api/account/favorites"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestFavoritesAdd(t *testing.T) {
	runner := &fakeRunner{writeRows: []map[string]interface{}{favoriteMovieRow("Toy Story", true)}}
	r := favoritesRouter(runner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("POST", "/api/account/favorites/862"))
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["favorite"])
	assert.Equal(t, "862", runner.lastParams["movieId"])
}

func TestFavoritesAddUnknownMovie(t *testing.T) {
	r := favoritesRouter(&fakeRunner{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("POST", "/api/account/favorites/999"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Couldn't create a favorite relationship for User user-1 and Movie 999")
}

func TestFavoritesRemove(t *testing.T) {
	runner := &fakeRunner{writeRows: []map[string]interface{}{favoriteMovieRow("Toy Story", false)}}
	r := favoritesRouter(runner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("DELETE", "/api/account/favorites/862"))
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["favorite"])
}

func TestFavoritesRemoveMissingEdge(t *testing.T) {
	r := favoritesRouter(&fakeRunner{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, bearerRequest("DELETE", "/api/account/favorites/999"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Couldn't create a favorite relationship")
}
