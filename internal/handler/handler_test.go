package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alifhakimiazwan/RateMyCitra/internal/contentfilter"
	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

const testSecret = "test-secret"

type fakeCitraSrv struct {
	items      []models.CitraSummary
	cacheHit   bool
	err        error
	lastFilter models.CitraFilter
	lastQuery  string
	lastLimit  int
	inserted   []dto.CreateCitraRequest
	reviews    []models.Rating
}

func (f *fakeCitraSrv) List(_ context.Context, filter models.CitraFilter) ([]models.CitraSummary, bool, error) {
	f.lastFilter = filter
	return f.items, f.cacheHit, f.err
}

func (f *fakeCitraSrv) ListPerSubject(_ context.Context, filter models.CitraFilter) ([]models.CitraSummary, error) {
	f.lastFilter = filter
	return f.items, f.err
}

func (f *fakeCitraSrv) Get(_ context.Context, ref string) (*models.CitraSummary, error) {
	for i := range f.items {
		if f.items[i].ID == ref || f.items[i].CourseCode == ref {
			return &f.items[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "citra not found")
}

func (f *fakeCitraSrv) Search(_ context.Context, query string, sort models.CitraSort) ([]models.CitraSummary, bool, error) {
	f.lastQuery = query
	f.lastFilter = models.CitraFilter{Search: query, Sort: sort}
	if query == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "query is required")
	}
	return f.items, false, f.err
}

func (f *fakeCitraSrv) Reviews(_ context.Context, _ string, limit int) ([]models.Rating, error) {
	f.lastLimit = limit
	return append([]models.Rating{}, f.reviews...), f.err
}

func (f *fakeCitraSrv) BulkCreate(_ context.Context, reqs []dto.CreateCitraRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "citraList must be a non-empty array")
	}
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, reqs...)
	return len(reqs), nil
}

type fakeExportSrv struct{}

func (fakeExportSrv) Export(_ context.Context, format service.ExportFormat, _ models.CitraFilter) (*service.ExportFile, error) {
	if format != service.ExportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportFile{Filename: "citra.csv", ContentType: "text/csv", Body: []byte("Course Code\nCITRA3001\n")}, nil
}

type fakeRatingSrv struct {
	userID string
	req    dto.SubmitRatingRequest
	err    error
}

func (f *fakeRatingSrv) Submit(_ context.Context, userID string, req dto.SubmitRatingRequest) error {
	f.userID = userID
	f.req = req
	return f.err
}

func (f *fakeRatingSrv) CheckContent(text string) contentfilter.Result {
	return contentfilter.New().Check(text)
}

type fakeReportSrv struct {
	seen map[string]bool
}

func (f *fakeReportSrv) Submit(_ context.Context, userID string, req dto.ReportRequest) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	key := userID + "|" + req.ReviewID
	if f.seen[key] {
		return appErrors.Clone(appErrors.ErrConflict, "you have already reported this review")
	}
	f.seen[key] = true
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testEnv struct {
	router  *gin.Engine
	citras  *fakeCitraSrv
	ratings *fakeRatingSrv
	auth    *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		citras: &fakeCitraSrv{items: []models.CitraSummary{{
			ID: "c-1", Name: "Design Thinking", CourseCode: "CITRA3001", CitraType: "Entrepreneurship", Faculty: "FTSM",
			RatingStats: models.RatingStats{TotalRatings: 2, AverageDifficulty: 3, TakeAgainPercentage: 50, Mode: "Online"},
		}}},
		ratings: &fakeRatingSrv{},
		auth:    service.NewAuthService(service.AuthConfig{Secret: testSecret}, nil),
	}
	env.router = gin.New()
	RegisterRoutes(env.router, "/api", Routes{
		Citra:   NewCitraHandler(env.citras, fakeExportSrv{}),
		Rating:  NewRatingHandler(env.ratings),
		Report:  NewReportHandler(&fakeReportSrv{}),
		Metrics: NewMetricsHandler(service.NewMetricsService(), fakePinger{}),
		Auth:    env.auth,
	})
	return env
}

func (e *testEnv) token(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, err := e.auth.IssueToken(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCitraListReturnsStatsEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.citras.cacheHit = true

	rec := env.do(http.MethodGet, "/api/citra?sort=Ratings&faculty=FTSM", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "CITRA3001", items[0]["courseCode"])
	assert.Equal(t, float64(2), items[0]["totalRatings"])
	assert.Equal(t, float64(50), items[0]["takeAgainPercentage"])
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Equal(t, models.CitraSortRatings, env.citras.lastFilter.Sort)
	assert.Equal(t, "FTSM", env.citras.lastFilter.Faculty)
}

func TestCitraListDefaultsSortToNone(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/citra/get", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CitraSortNone, env.citras.lastFilter.Sort)
}

func TestCitraGetAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/citra/CITRA3001", "", "").Code)

	rec := env.do(http.MethodGet, "/api/citra/CITRA0000", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decode(t, rec).Error.Code)
}

func TestCitraReviewsLimit(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/citra/CITRA3001/reviews?limit=5", "", "").Code)
	assert.Equal(t, 5, env.citras.lastLimit)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/citra/CITRA3001/reviews?limit=abc", "", "").Code)
}

func TestCitraReviewsMarksCallersOwnReview(t *testing.T) {
	env := newTestEnv(t)
	env.citras.reviews = []models.Rating{
		{ID: "r-1", UserID: "user-1", Review: "Loved the field trips"},
		{ID: "r-2", UserID: "user-2", Review: "Too many quizzes"},
	}

	var body struct {
		Data []struct {
			ID   string `json:"id"`
			Mine bool   `json:"mine"`
		} `json:"data"`
	}

	rec := env.do(http.MethodGet, "/api/citra/CITRA3001/reviews", "", env.token(t, "user-1", models.RoleStudent))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.True(t, body.Data[0].Mine)
	assert.False(t, body.Data[1].Mine)

	rec = env.do(http.MethodGet, "/api/citra/CITRA3001/reviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Data[0].Mine)
	assert.NotContains(t, rec.Body.String(), "user-1")
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/search", "", "").Code)

	rec := env.do(http.MethodGet, "/api/search?query=3001", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3001", env.citras.lastQuery)
}

func TestCitraExport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/citra/export?format=csv", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "citra.csv")

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/citra/export?format=docx", "", "").Code)
}

func TestCitraAddRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	payload := `{"citraList":[{"name":"Bahasa Jepun","courseCode":"CITRA2002","citraType":"Language","faculty":"FSSK"}]}`

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/citra/add", payload, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/citra/add", payload, env.token(t, "student-1", models.RoleStudent)).Code)

	admin := env.token(t, "admin-1", models.RoleAdmin)
	rec := env.do(http.MethodPost, "/api/citra/add", payload, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.AddCitraListResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &resp))
	assert.Equal(t, 1, resp.InsertedCount)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/citra/add", `{"citraList":"nope"}`, admin).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/citra/add", `{"citraList":[]}`, admin).Code)

	env.citras.err = appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/citra/add", payload, admin).Code)
}

func TestRatingSubmit(t *testing.T) {
	env := newTestEnv(t)
	payload := `{"citraId":"CITRA3001","difficulty":3,"mode":"Online","takeAgain":"true","grade":"A","review":"Loved the weekly projects"}`

	rec := env.do(http.MethodPost, "/api/rating/add", payload, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.ratings.userID)

	rec = env.do(http.MethodPost, "/api/rating/add", payload, env.token(t, "user-1", models.RoleStudent))
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &msg))
	assert.Equal(t, service.RatingSubmittedMessage, msg.Message)
	assert.Equal(t, "user-1", env.ratings.userID)
	assert.True(t, bool(env.ratings.req.TakeAgain))

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/rating/add", `{"difficulty":"hard"}`, env.token(t, "user-1", models.RoleStudent)).Code)
}

func TestRatingSubmitPropagatesServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	env.ratings.err = appErrors.ErrRestrictedContent

	rec := env.do(http.MethodPost, "/api/rating/add", `{"citraId":"CITRA3001"}`, env.token(t, "user-1", models.RoleStudent))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "RESTRICTED_CONTENT", decode(t, rec).Error.Code)

	env.ratings.err = appErrors.Internal(assert.AnError, "failed to submit rating")
	rec = env.do(http.MethodPost, "/api/rating/add", `{"citraId":"CITRA3001"}`, env.token(t, "user-1", models.RoleStudent))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestReportSubmitOnce(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", models.RoleStudent)
	payload := `{"reviewId":"a3c1e0f4-7b2d-4c9e-8f61-2d5b9a7e4c10","reason":"spam"}`

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/report", payload, "").Code)
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/report", payload, token).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPost, "/api/report", payload, token).Code)
}

func TestContentCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/content/check", `{"text":"Dr Smith was late"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res contentfilter.Result
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	assert.True(t, res.Restricted)

	rec = env.do(http.MethodPost, "/api/content/check", `{"text":"This course was great"}`, "")
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	assert.False(t, res.Restricted)
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/ready", "", "").Code)

	rec := env.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines_total")

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/metrics/summary", "", "").Code)
}

func TestReadyFailsWhenDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, fakePinger{err: assert.AnError})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
