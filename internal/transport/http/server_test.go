package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"surprise_week/internal/domain/models"
	"surprise_week/internal/repository"
	accessservice "surprise_week/internal/services/access_service"
	mediaservice "surprise_week/internal/services/media_service"
	surpriseservice "surprise_week/internal/services/surprise_service"
	transport "surprise_week/internal/transport/http"
	"surprise_week/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSurpriseService struct {
	mock.Mock
}

func (m *MockSurpriseService) List(ctx context.Context, deviceID string) (dto.SurpriseListResponse, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(dto.SurpriseListResponse), args.Error(1)
}

func (m *MockSurpriseService) Get(ctx context.Context, id uuid.UUID, deviceID string) (*dto.SurpriseDetailResponse, error) {
	args := m.Called(ctx, id, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SurpriseDetailResponse), args.Error(1)
}

func (m *MockSurpriseService) NextUnlock(ctx context.Context) (*dto.NextUnlockResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NextUnlockResponse), args.Error(1)
}

func (m *MockSurpriseService) AnswerQuiz(ctx context.Context, id uuid.UUID, req dto.AnswerRequest) (dto.AnswerResponse, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(dto.AnswerResponse), args.Error(1)
}

func (m *MockSurpriseService) Create(ctx context.Context, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SurpriseDetailResponse), args.Error(1)
}

func (m *MockSurpriseService) Update(ctx context.Context, id uuid.UUID, in dto.SurpriseInput) (*dto.SurpriseDetailResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SurpriseDetailResponse), args.Error(1)
}

func (m *MockSurpriseService) Stats(ctx context.Context, deviceID string) (dto.StatsResponse, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(dto.StatsResponse), args.Error(1)
}

type MockMemoryService struct {
	mock.Mock
}

func (m *MockMemoryService) List(ctx context.Context) ([]dto.MemoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.MemoryResponse), args.Error(1)
}

func (m *MockMemoryService) Get(ctx context.Context, id uuid.UUID) (*dto.MemoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoryResponse), args.Error(1)
}

func (m *MockMemoryService) Create(ctx context.Context, in dto.MemoryInput) (*dto.MemoryResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoryResponse), args.Error(1)
}

func (m *MockMemoryService) Update(ctx context.Context, id uuid.UUID, in dto.MemoryInput) (*dto.MemoryResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemoryResponse), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Public(ctx context.Context) (dto.SettingsResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.SettingsResponse), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Enter(ctx context.Context, password, deviceID string) (string, error) {
	args := m.Called(ctx, password, deviceID)
	return args.String(0), args.Error(1)
}

func (m *MockAccessService) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadSingle(ctx context.Context, file *multipart.FileHeader, kindHint string) (string, models.MediaKind, error) {
	args := m.Called(ctx, file, kindHint)
	return args.String(0), args.Get(1).(models.MediaKind), args.Error(2)
}

func (m *MockMediaService) Progress(batchID string) mediaservice.UploadProgress {
	args := m.Called(batchID)
	return args.Get(0).(mediaservice.UploadProgress)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type harness struct {
	echo     *echo.Echo
	routers  *transport.Routers
	surprise *MockSurpriseService
	access   *MockAccessService
}

func setupHarness(t *testing.T) *harness {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	surprise := new(MockSurpriseService)
	access := new(MockAccessService)
	routers := transport.NewRouter(log, surprise, new(MockMemoryService), new(MockSettingsService), access, new(MockMediaService))

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return &harness{echo: e, routers: routers, surprise: surprise, access: access}
}

func (h *harness) do(t *testing.T, method, target, body string, header map[string]string, handler echo.HandlerFunc, middlewares ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c := h.echo.NewContext(req, rec)

	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	// session middleware has to run for device id minting in deviceID
	wrapped = session.Middleware(sessions.NewCookieStore([]byte("test-secret")))(wrapped)

	require.NoError(t, wrapped(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestEntrance(t *testing.T) {
	t.Run("correct password returns a token", func(t *testing.T) {
		h := setupHarness(t)
		h.access.On("Enter", mock.Anything, "iloveyou", mock.AnythingOfType("string")).
			Return("signed.jwt.token", nil)

		rec := h.do(t, http.MethodPost, "/api/v1/entrance", `{"password":"iloveyou"}`, nil, h.routers.Entrance)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "signed.jwt.token", body["data"].(map[string]any)["token"])
	})

	t.Run("wrong password carries the hint", func(t *testing.T) {
		h := setupHarness(t)
		h.access.On("Enter", mock.Anything, "guess", mock.AnythingOfType("string")).
			Return("", &accessservice.WrongPasswordError{Hint: "three little words"})

		rec := h.do(t, http.MethodPost, "/api/v1/entrance", `{"password":"guess"}`, nil, h.routers.Entrance)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "wrong_password", body["error"])
		assert.Equal(t, "three little words", body["details"])
	})

	t.Run("empty body fails validation", func(t *testing.T) {
		h := setupHarness(t)

		rec := h.do(t, http.MethodPost, "/api/v1/entrance", `{}`, nil, h.routers.Entrance)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		h.access.AssertNotCalled(t, "Enter")
	})
}

func TestRequireAccess(t *testing.T) {
	next := func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("device_id").(string))
	}

	t.Run("missing header is rejected", func(t *testing.T) {
		h := setupHarness(t)

		rec := h.do(t, http.MethodGet, "/api/v1/surprises", "", nil, next, h.routers.RequireAccess)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication_required", decode(t, rec)["error"])
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		h := setupHarness(t)
		h.access.On("Verify", "garbage").Return("", assert.AnError)

		rec := h.do(t, http.MethodGet, "/api/v1/surprises", "",
			map[string]string{echo.HeaderAuthorization: "Bearer garbage"},
			next, h.routers.RequireAccess)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token reaches the handler with its device id", func(t *testing.T) {
		h := setupHarness(t)
		h.access.On("Verify", "good-token").Return("device-9", nil)

		rec := h.do(t, http.MethodGet, "/api/v1/surprises", "",
			map[string]string{echo.HeaderAuthorization: "Bearer good-token"},
			next, h.routers.RequireAccess)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "device-9", rec.Body.String())
	})
}

func TestGetSurprise(t *testing.T) {
	t.Run("locked surprise returns the countdown, not the content", func(t *testing.T) {
		h := setupHarness(t)
		id := uuid.New()
		h.surprise.On("Get", mock.Anything, id, mock.AnythingOfType("string")).
			Return(nil, &surpriseservice.LockedError{
				Title:      "day three",
				LockedHint: "soon",
				Countdown:  models.Countdown{Days: 1, RemainingMS: 90_000_000},
			})

		rec := h.do(t, http.MethodGet, "/api/v1/surprises/"+id.String(), "", nil, withParam(h.routers.GetSurprise, "id", id.String()))

		require.Equal(t, http.StatusForbidden, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "still_locked", body["message"])

		data := body["data"].(map[string]any)
		assert.Equal(t, "day three", data["title"])
		assert.Equal(t, "soon", data["locked_hint"])
		assert.EqualValues(t, 90_000_000, data["time_remaining_ms"])
		assert.NotContains(t, data, "content_payload")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		h := setupHarness(t)
		id := uuid.New()
		h.surprise.On("Get", mock.Anything, id, mock.AnythingOfType("string")).
			Return(nil, repository.ErrSurpriseNotFound)

		rec := h.do(t, http.MethodGet, "/api/v1/surprises/"+id.String(), "", nil, withParam(h.routers.GetSurprise, "id", id.String()))

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		h := setupHarness(t)

		rec := h.do(t, http.MethodGet, "/api/v1/surprises/nope", "", nil, withParam(h.routers.GetSurprise, "id", "nope"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		h.surprise.AssertNotCalled(t, "Get")
	})
}

func TestNextUnlock_Exhausted(t *testing.T) {
	h := setupHarness(t)
	h.surprise.On("NextUnlock", mock.Anything).Return(nil, surpriseservice.ErrNoLockedSurprises)

	rec := h.do(t, http.MethodGet, "/api/v1/surprises/next", "", nil, h.routers.NextUnlock)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "everything is unlocked", body["message"])
	assert.Nil(t, body["data"])
}

func TestAnswerQuiz(t *testing.T) {
	t.Run("graded answer comes back", func(t *testing.T) {
		h := setupHarness(t)
		id := uuid.New()
		h.surprise.On("AnswerQuiz", mock.Anything, id, dto.AnswerRequest{QuestionIndex: 0, Answer: "paris"}).
			Return(dto.AnswerResponse{Result: "correct"}, nil)

		rec := h.do(t, http.MethodPost, "/api/v1/surprises/"+id.String()+"/answers",
			`{"question_index":0,"answer":"paris"}`, nil,
			withParam(h.routers.AnswerQuiz, "id", id.String()))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "correct", body["data"].(map[string]any)["result"])
	})

	t.Run("blank answer is a legal guess, graded not rejected", func(t *testing.T) {
		h := setupHarness(t)
		id := uuid.New()
		h.surprise.On("AnswerQuiz", mock.Anything, id, dto.AnswerRequest{QuestionIndex: 0, Answer: ""}).
			Return(dto.AnswerResponse{Result: "incorrect", Hint: "think of the seaside"}, nil)

		rec := h.do(t, http.MethodPost, "/api/v1/surprises/"+id.String()+"/answers",
			`{"question_index":0,"answer":""}`, nil,
			withParam(h.routers.AnswerQuiz, "id", id.String()))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, "incorrect", data["result"])
		assert.Equal(t, "think of the seaside", data["hint"])
	})
}

// withParam injects a path parameter the way the echo router would.
func withParam(handler echo.HandlerFunc, name, value string) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetParamNames(name)
		c.SetParamValues(value)
		return handler(c)
	}
}
