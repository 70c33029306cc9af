package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/config"
	"github.com/yigit/examprep/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const seedYAML = `
subjects:
  Physics:
    - question: "SI unit of force?"
      answer: "Newton"
    - question: "Unit of energy?"
      answer: "Joule"
  English:
    - question: "Plural of mouse?"
      answer: "mice"
`

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seedFile := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(seedYAML), 0o600))

	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = time.Hour
	cfg.JWT.Issuer = "examprep-test"
	cfg.Security.BcryptCost = 4
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Content.Subjects = []string{"Physics", "Math", "Chemistry", "English"}
	cfg.Content.SeedFile = seedFile

	lgr := zerolog.Nop()
	store, err := SetupDatabase(context.Background(), cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	deps, err := BuildDependencies(cfg, store.Repos, lgr)
	require.NoError(t, err)

	return &apiClient{t: t, router: SetupRouter(cfg, deps, lgr)}
}

func (c *apiClient) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *apiClient) register(email, username, password string) dto.AuthResponse {
	c.t.Helper()
	w := c.do(http.MethodPost, "/register", map[string]string{"email": email, "username": username, "password": password}, "")
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())
	var res dto.AuthResponse
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	return res
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	reg := api.register("a@x.com", "alice", "secret1")
	assert.Equal(t, "Student registered successfully", reg.Message)
	assert.Equal(t, "alice", reg.StudentName)
	assert.True(t, reg.IsStudent)
	assert.NotEmpty(t, reg.Token)

	w := api.do(http.MethodPost, "/register", map[string]string{"email": "a@x.com", "username": "bob", "password": "secret2"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email or username already exists", decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/register", map[string]string{"email": "b@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, reg.StudentID, login.StudentID)

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookieName {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, login.Token, sessionCookie.Value)

	w = api.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/login", map[string]string{"email": "nobody@x.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeError(t, w).Message)

	w = api.do(http.MethodPost, "/login", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Logout(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/logout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAPI_Profile(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("a@x.com", "alice", "secret1")
	bob := api.register("b@x.com", "bob", "secret2")

	w := api.do(http.MethodGet, "/profile/"+alice.StudentID, nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hashedPassword")
	assert.NotContains(t, w.Body.String(), "PasswordHash")
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, alice.StudentID, profile["_id"])
	assert.Equal(t, "a@x.com", profile["email"])

	w = api.do(http.MethodGet, "/profile/"+alice.StudentID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/profile/"+alice.StudentID, nil, "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/profile/"+alice.StudentID, nil, bob.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/profile/not-an-id", nil, alice.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid student ID format", decodeError(t, w).Message)

	w = api.do(http.MethodPut, "/profile/"+alice.StudentID, map[string]string{"fullName": "Alice A", "batch": "HSC 2025"}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, "/profile/"+alice.StudentID, map[string]string{"fullName": "Alice A"}, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data unchanged", decodeError(t, w).Message)

	w = api.do(http.MethodPut, "/profile/"+alice.StudentID, map[string]string{"username": "bob"}, alice.Token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Username already taken", decodeError(t, w).Message)

	w = api.do(http.MethodPut, "/profile/"+alice.StudentID, map[string]string{"batch": ""}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/profile/"+alice.StudentID, nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	profile = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Alice A", profile["fullName"])
	assert.NotContains(t, profile, "batch")
}

func TestAPI_CookieAuth(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("a@x.com", "alice", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/profile/"+alice.StudentID, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: alice.Token})
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_UpdatePassword(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("a@x.com", "alice", "secret1")
	path := "/update-password/" + alice.StudentID

	w := api.do(http.MethodPost, path, map[string]string{"oldPassword": "secret1", "newPassword": "abc", "confirmNewPassword": "abc"}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters long", decodeError(t, w).Message)

	w = api.do(http.MethodPost, path, map[string]string{"oldPassword": "secret1", "newPassword": "newsecret", "confirmNewPassword": "other1"}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New passwords do not match", decodeError(t, w).Message)

	w = api.do(http.MethodPost, path, map[string]string{"oldPassword": "wrong", "newPassword": "newsecret", "confirmNewPassword": "newsecret"}, alice.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid old password", decodeError(t, w).Message)

	w = api.do(http.MethodPost, path, map[string]string{"oldPassword": "secret1", "newPassword": "newsecret", "confirmNewPassword": "newsecret"}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "newsecret"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Questions(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/questions?subject=Physics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var physics []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &physics))
	require.Len(t, physics, 2)
	for _, q := range physics {
		assert.Equal(t, "Physics", q["subject"])
		assert.NotEmpty(t, q["_id"])
		assert.NotEmpty(t, q["question"])
	}

	w = api.do(http.MethodGet, "/questions", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Subject is required", decodeError(t, w).Message)

	w = api.do(http.MethodGet, "/questions?subject=Biology", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = api.do(http.MethodGet, "/allQuestions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 3)
	assert.Equal(t, "Physics", all[0]["subject"])
	assert.Equal(t, "English", all[2]["subject"])
}

func TestAPI_ModelTests(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/storeModelTest", map[string]interface{}{
		"Name": "Mock1", "Marks": 100, "Time": 60, "Subject": "Math", "QuestionIds": []string{"id1", "id2"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "ModelTest stored successfully", created.Message)
	assert.Len(t, created.ID, 24)

	w = api.do(http.MethodGet, "/allModelTests", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tests []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tests))
	require.Len(t, tests, 1)
	assert.Equal(t, "Mock1", tests[0]["Name"])
	assert.EqualValues(t, 100, tests[0]["Marks"])
	assert.Equal(t, created.ID, tests[0]["_id"])

	w = api.do(http.MethodGet, "/mockTest/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/mockTest/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/mockTest/xyz", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/storeModelTest", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = api.do(http.MethodPost, "/storeModelTest", map[string]interface{}{"Name": 5}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request format", decodeError(t, w).Message)
	assert.NotContains(t, w.Body.String(), "Go struct")
	assert.NotContains(t, w.Body.String(), "CreateModelTestRequest")
}

func TestAPI_StoreModelTestKeepsValues(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/storeModelTest", map[string]interface{}{
		"Name": "Mock2", "Marks": "100", "Time": 60.5, "Subject": "Physics", "QuestionIds": []string{},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = api.do(http.MethodGet, "/mockTest/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var test map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &test))
	assert.Equal(t, "100", test["Marks"])
	assert.Equal(t, 60.5, test["Time"])
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestBuildDependencies_RequiresSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.Expiration = time.Hour
	_, err := BuildDependencies(cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}
