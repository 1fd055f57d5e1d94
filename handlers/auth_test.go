package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/neoflix/neoflix-api/internal/auth"
	"github.com/neoflix/neoflix-api/internal/config"
)

const testSecret = "handlers-test-secret-32-bytes-xxxx"

// fake graph runner shared by the handler tests
type fakeRunner struct {
	readRows  []map[string]interface{}
	readErr   error
	writeRows []map[string]interface{}
	writeErr  error

	lastCypher string
	lastParams map[string]interface{}
}

func (f *fakeRunner) ExecuteRead(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	f.lastCypher = cypher
	f.lastParams = params
	return f.readRows, f.readErr
}

func (f *fakeRunner) ExecuteWrite(ctx context.Context, cypher string, params map[string]interface{}) ([]map[string]interface{}, error) {
	f.lastCypher = cypher
	f.lastParams = params
	return f.writeRows, f.writeErr
}

func handlerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Auth.SaltRounds = bcrypt.MinCost
	return cfg
}

func authRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(auth.NewService(runner, handlerConfig()))
	h.Register(r.Group("/api"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	runner := &fakeRunner{writeRows: []map[string]interface{}{
		{"u": map[string]interface{}{"userId": "user-1", "email": "graham@example.com", "name": "Graham"}},
	}}
	r := authRouter(runner)

	w := postJSON(r, "/api/auth/register", `{"email":"graham@example.com","password":"letmein","name":"Graham"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "user-1", got["userId"])
	assert.Equal(t, "graham@example.com", got["email"])
	assert.NotEmpty(t, got["token"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	runner := &fakeRunner{writeErr: &neo4j.Neo4jError{
		Code: "Neo.ClientError.Schema.ConstraintValidationFailed",
		Msg:  "already exists",
	}}
	r := authRouter(runner)

	w := postJSON(r, "/api/auth/register", `{"email":"graham@example.com","password":"letmein","name":"Graham"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var got struct {
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "An account already exists with the email address graham@example.com", got.Message)
	assert.Equal(t, "Email address taken", got.Details["email"])
}

func TestRegisterEndpointRejectsBadPayload(t *testing.T) {
	r := authRouter(&fakeRunner{})

	w := postJSON(r, "/api/auth/register", `{"email":"not-an-email","password":"x","name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/auth/register", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	runner := &fakeRunner{readRows: []map[string]interface{}{
		{"u": map[string]interface{}{"userId": "user-1", "email": "graham@example.com", "name": "Graham", "password": string(hash)}},
	}}
	r := authRouter(runner)

	w := postJSON(r, "/api/auth/login", `{"email":"graham@example.com","password":"letmein"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "user-1", got["userId"])
	assert.NotEmpty(t, got["token"])
}

// Unknown email and wrong password must be indistinguishable over the wire
func TestLoginEndpointAntiEnumeration(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	knownUser := &fakeRunner{readRows: []map[string]interface{}{
		{"u": map[string]interface{}{"userId": "user-1", "email": "graham@example.com", "name": "Graham", "password": string(hash)}},
	}}

	wrongPassword := postJSON(authRouter(knownUser), "/api/auth/login", `{"email":"graham@example.com","password":"wrong"}`)
	unknownEmail := postJSON(authRouter(&fakeRunner{}), "/api/auth/login", `{"email":"nobody@example.com","password":"letmein"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}
