package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/questionbank/docs"
	"github.com/yigit/questionbank/internal/app/controllers"
	"github.com/yigit/questionbank/internal/app/repositories/memory"
	"github.com/yigit/questionbank/internal/app/services"
	"github.com/yigit/questionbank/internal/middleware"
	"github.com/yigit/questionbank/internal/pkg/auth"
	"github.com/yigit/questionbank/internal/pkg/ratelimit"
	"github.com/yigit/questionbank/internal/seed"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newTestRouter(t *testing.T, limiter ratelimit.Limiter) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.NewRepositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "questionbank-test",
	})
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	svc := services.NewServices(repos, jwtService, hasher, zerolog.Nop())

	err := seed.CreateDefaultData(context.Background(), repos, hasher, seed.AdminAccount{
		Email:    adminEmail,
		Password: adminPassword,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.NoRoute(middleware.NotFound())

	var loginGuard gin.HandlerFunc
	if limiter != nil {
		loginGuard = middleware.RateLimit(limiter, "login", 2)
	}

	SetupRouter(router, Controllers{
		Auth:         controllers.NewAuthController(svc.Auth, false, zerolog.Nop()),
		Subject:      controllers.NewSubjectController(svc.Subjects),
		Grade:        controllers.NewGradeController(svc.Grades),
		QuestionType: controllers.NewQuestionTypeController(svc.QuestionTypes),
		Chapter:      controllers.NewChapterController(svc.Chapters),
		Question:     controllers.NewQuestionController(svc.Questions),
	}, middleware.NewAuthMiddleware(jwtService, repos.Users), loginGuard)

	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: response is not an envelope: %s", method, path, w.Body.String())
	}
	return w, env
}

func (a *apiClient) expect(method, path, token string, body interface{}, status int) envelope {
	a.t.Helper()
	w, env := a.do(method, path, token, body)
	if w.Code != status {
		a.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, w.Code, w.Body.String())
	}
	if env.StatusCode != status || env.Success != (status < 400) {
		a.t.Fatalf("%s %s: envelope mismatch: %+v", method, path, env)
	}
	return env
}

func (a *apiClient) login(email, password string) string {
	a.t.Helper()
	env := a.expect(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": email, "password": password}, http.StatusOK)
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		a.t.Fatalf("login returned no token: %s", env.Data)
	}
	return data.AccessToken
}

func (a *apiClient) registerAndLogin(email, role string) string {
	a.t.Helper()
	a.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": email, "password": "secret123", "role": role}, http.StatusOK)
	return a.login(email, "secret123")
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.ID == "" {
		t.Fatalf("response carries no id: %s", env.Data)
	}
	return data.ID
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	api := newTestRouter(t, nil)

	api.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "a@b.com", "password": "secret123"}, http.StatusOK)

	w, env := api.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": "A@B.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), middleware.AccessTokenCookie+"=") {
		t.Fatalf("expected access token cookie, got %q", w.Header().Get("Set-Cookie"))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "HttpOnly") {
		t.Fatalf("expected HttpOnly cookie, got %q", w.Header().Get("Set-Cookie"))
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("expected token in body: %s", env.Data)
	}

	w, env = api.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": "a@b.com", "password": "wrong-password"})
	if w.Code != http.StatusUnauthorized || env.Message != "Invalid user credentials" {
		t.Fatalf("expected 401 Invalid user credentials, got %d %q", w.Code, env.Message)
	}
	if strings.Contains(string(env.Data), "accessToken") || w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("failed login must not hand out a token")
	}

	_, env = api.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": "nobody@b.com", "password": "secret123"})
	if env.StatusCode != http.StatusNotFound || env.Message != "User does not exist" {
		t.Fatalf("expected 404 User does not exist, got %+v", env)
	}

	env = api.expect(http.MethodGet, "/api/v1/auth/me", data.AccessToken, nil, http.StatusOK)
	if !strings.Contains(string(env.Data), `"email":"a@b.com"`) || !strings.Contains(string(env.Data), `"role":"student"`) {
		t.Fatalf("unexpected identity: %s", env.Data)
	}
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	api := newTestRouter(t, nil)

	env := api.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "x@y.com", "password": "secret123", "role": "admin"}, http.StatusBadRequest)
	if env.Message == "" {
		t.Fatalf("expected a validation message")
	}

	api.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "x@y.com", "password": "secret123"}, http.StatusOK)
	api.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "X@Y.com", "password": "secret123"}, http.StatusConflict)
}

func TestCookieAuthenticatesAndLogoutClearsIt(t *testing.T) {
	api := newTestRouter(t, nil)
	api.expect(http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "c@d.com", "password": "secret123"}, http.StatusOK)
	token := api.login("c@d.com", "secret123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: token})
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cookie auth: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w, _ = api.do(http.MethodPost, "/api/v1/users/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("expected cookie to be cleared, got %q", cookie)
	}
}

func TestAuthAndRoleGate(t *testing.T) {
	api := newTestRouter(t, nil)

	_, env := api.do(http.MethodGet, "/api/v1/subjects", "", nil)
	if env.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %+v", env)
	}
	api.expect(http.MethodGet, "/api/v1/subjects", "not-a-token", nil, http.StatusUnauthorized)

	student := api.registerAndLogin("s@school.edu", "student")
	env = api.expect(http.MethodPost, "/api/v1/subjects", student, gin.H{"name": "Algebra", "description": "Equations"}, http.StatusForbidden)
	if env.Message != "Forbidden: admin access required" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	api.expect(http.MethodGet, "/api/v1/grades", student, nil, http.StatusForbidden)
	api.expect(http.MethodGet, "/api/v1/subjects", student, nil, http.StatusOK)
}

func TestChapterScenario(t *testing.T) {
	api := newTestRouter(t, nil)
	admin := api.login(adminEmail, adminPassword)

	algebra := dataID(t, api.expect(http.MethodPost, "/api/v1/subjects", admin, gin.H{"name": "Algebra", "description": "Equations"}, http.StatusCreated))
	geometry := dataID(t, api.expect(http.MethodPost, "/api/v1/subjects", admin, gin.H{"name": "Geometry", "description": "Shapes"}, http.StatusCreated))
	api.expect(http.MethodPost, "/api/v1/subjects", admin, gin.H{"name": "Algebra", "description": "Again"}, http.StatusConflict)

	api.expect(http.MethodPost, "/api/v1/grades", admin, gin.H{"grade": "10", "subjects": []string{algebra, geometry}}, http.StatusCreated)
	api.expect(http.MethodPost, "/api/v1/grades", admin, gin.H{"grade": "10", "subjects": []string{algebra}}, http.StatusConflict)
	env := api.expect(http.MethodPost, "/api/v1/grades", admin, gin.H{"grade": "11", "subjects": []string{"bogus"}}, http.StatusBadRequest)
	if env.Message != "Invalid subject ID: bogus" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	env = api.expect(http.MethodPost, "/api/v1/grades", admin, gin.H{"grade": strings.Repeat("g", 150), "subjects": []string{algebra}}, http.StatusBadRequest)
	if env.Message != "grade must be at most 100 characters" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	studentA := api.registerAndLogin("a@school.edu", "student")
	studentB := api.registerAndLogin("b@school.edu", "student")

	chapter := gin.H{"grade": "10", "subject": "Algebra", "chapterName": "Functions"}
	created := api.expect(http.MethodPost, "/api/v1/chapters", studentA, chapter, http.StatusCreated)
	if !strings.Contains(string(created.Data), `"name":"Algebra"`) {
		t.Fatalf("expected populated subject: %s", created.Data)
	}
	chapterID := dataID(t, created)

	api.expect(http.MethodPost, "/api/v1/chapters", studentA, chapter, http.StatusConflict)
	api.expect(http.MethodPost, "/api/v1/chapters", studentB, chapter, http.StatusCreated)

	env = api.expect(http.MethodPost, "/api/v1/chapters", studentA, gin.H{"grade": "12", "subject": "Algebra", "chapterName": "Limits"}, http.StatusNotFound)
	if env.Message != "Grade not found" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	// listings are owner scoped
	var listed []json.RawMessage
	env = api.expect(http.MethodGet, "/api/v1/chapters", studentA, nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &listed); err != nil || len(listed) != 1 {
		t.Fatalf("student A should see one chapter, got %s", env.Data)
	}
	env = api.expect(http.MethodGet, "/api/v1/chapters", admin, nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &listed); err != nil || len(listed) != 2 {
		t.Fatalf("admin should see both chapters, got %s", env.Data)
	}
	env = api.expect(http.MethodGet, "/api/v1/chapters/filter?grade=10&subject=Geometry", studentA, nil, http.StatusOK)
	if err := json.Unmarshal(env.Data, &listed); err != nil || len(listed) != 0 {
		t.Fatalf("geometry filter should be empty, got %s", env.Data)
	}

	env = api.expect(http.MethodGet, "/api/v1/chapters/"+chapterID, studentB, nil, http.StatusForbidden)
	if env.Message != "Forbidden: You can only access your own chapters" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	api.expect(http.MethodPut, "/api/v1/chapters/"+chapterID, studentB, gin.H{"chapterName": "Stolen"}, http.StatusForbidden)

	env = api.expect(http.MethodPut, "/api/v1/chapters/"+chapterID, studentA, gin.H{"subject": geometry, "bookName": "Shapes I"}, http.StatusOK)
	if !strings.Contains(string(env.Data), `"bookName":"Shapes I"`) {
		t.Fatalf("update not applied: %s", env.Data)
	}
	env = api.expect(http.MethodPut, "/api/v1/chapters/"+chapterID, studentA, gin.H{"chapterName": strings.Repeat("x", 300)}, http.StatusBadRequest)
	if env.Message != "chapterName must be at most 200 characters" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	api.expect(http.MethodDelete, "/api/v1/chapters/"+chapterID, studentA, nil, http.StatusOK)
	api.expect(http.MethodGet, "/api/v1/chapters/"+chapterID, studentA, nil, http.StatusNotFound)
	api.expect(http.MethodGet, "/api/v1/chapters/not-an-id", studentA, nil, http.StatusBadRequest)
}

func TestQuestionLifecycle(t *testing.T) {
	api := newTestRouter(t, nil)
	admin := api.login(adminEmail, adminPassword)

	subject := dataID(t, api.expect(http.MethodPost, "/api/v1/subjects", admin, gin.H{"name": "Algebra", "description": "Equations"}, http.StatusCreated))
	grade := dataID(t, api.expect(http.MethodPost, "/api/v1/grades", admin, gin.H{"grade": "9", "subjects": []string{subject}}, http.StatusCreated))
	qType := dataID(t, api.expect(http.MethodPost, "/api/v1/question-types", admin, gin.H{"name": "Short answer", "description": "One line"}, http.StatusCreated))

	owner := api.registerAndLogin("owner@school.edu", "teacher")
	other := api.registerAndLogin("other@school.edu", "teacher")

	chapter := dataID(t, api.expect(http.MethodPost, "/api/v1/chapters", owner, gin.H{"grade": grade, "subject": subject, "chapterName": "Linear"}, http.StatusCreated))

	body := gin.H{
		"question":     "Solve x + 2 = 5",
		"answer":       "x = 3",
		"grade":        grade,
		"subject":      subject,
		"chapter":      chapter,
		"questionType": qType,
		"description":  "Warm-up",
	}

	invalid := gin.H{}
	for k, v := range body {
		invalid[k] = v
	}
	invalid["grade"] = "12345"
	env := api.expect(http.MethodPost, "/api/v1/questions", owner, invalid, http.StatusBadRequest)
	if env.Message != "Invalid grade ID" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	questionID := dataID(t, api.expect(http.MethodPost, "/api/v1/questions", owner, body, http.StatusCreated))
	api.expect(http.MethodPost, "/api/v1/questions", owner, body, http.StatusConflict)
	api.expect(http.MethodPost, "/api/v1/questions", owner, body, http.StatusConflict)

	env = api.expect(http.MethodGet, "/api/v1/questions?page=1&size=10", admin, nil, http.StatusOK)
	if !strings.Contains(string(env.Data), `"totalItems":1`) {
		t.Fatalf("expected one question in listing: %s", env.Data)
	}
	env = api.expect(http.MethodGet, "/api/v1/questions", other, nil, http.StatusOK)
	if !strings.Contains(string(env.Data), `"totalItems":0`) {
		t.Fatalf("other teacher should see no questions: %s", env.Data)
	}

	// ownership is decided before the body is read
	env = api.expect(http.MethodPut, "/api/v1/questions/"+questionID, other, `{"question": 12`, http.StatusForbidden)
	if env.Message != "Forbidden: You can only update your own questions" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	api.expect(http.MethodDelete, "/api/v1/questions/"+questionID, other, nil, http.StatusForbidden)

	env = api.expect(http.MethodPut, "/api/v1/questions/"+questionID, owner, gin.H{"answer": ""}, http.StatusOK)
	if strings.Contains(string(env.Data), `"answer"`) {
		t.Fatalf("expected answer to be cleared: %s", env.Data)
	}

	api.expect(http.MethodDelete, "/api/v1/chapters/"+chapter, owner, nil, http.StatusConflict)
	api.expect(http.MethodDelete, "/api/v1/questions/"+questionID, admin, nil, http.StatusOK)
	api.expect(http.MethodGet, "/api/v1/questions/"+questionID, owner, nil, http.StatusNotFound)
	api.expect(http.MethodDelete, "/api/v1/chapters/"+chapter, owner, nil, http.StatusOK)
}

func TestLoginRateLimited(t *testing.T) {
	api := newTestRouter(t, ratelimit.NewInMemory(time.Minute))

	for i := 0; i < 2; i++ {
		api.expect(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": adminEmail, "password": "wrong"}, http.StatusUnauthorized)
	}
	w, env := api.do(http.MethodPost, "/api/v1/users/login", "", gin.H{"email": adminEmail, "password": adminPassword})
	if w.Code != http.StatusTooManyRequests || env.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	api := newTestRouter(t, nil)

	api.expect(http.MethodGet, "/health", "", nil, http.StatusOK)
	env := api.expect(http.MethodGet, "/api/v1/nope", "", nil, http.StatusNotFound)
	if env.Message != "Route not found" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestSwaggerDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	original := docs.SwaggerInfo.Host
	t.Cleanup(func() { docs.SwaggerInfo.Host = original })

	router := gin.New()
	SetupSwagger(router, "api.example.test")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var doc struct {
		Host string `json:"host"`
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	if doc.Host != "api.example.test" || doc.Info.Title != "Question Bank API" {
		t.Fatalf("unexpected document header: host=%q title=%q", doc.Host, doc.Info.Title)
	}
	if _, ok := doc.Paths["/chapters/filter"]; !ok {
		t.Fatal("expected /chapters/filter in the document")
	}
}
