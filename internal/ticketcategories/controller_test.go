package ticketcategories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tiketin/internal/shared/utils/response"
	"tiketin/pkg/cache"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SetCacheService(cache.Service)                  {}
func (m *MockService) SetPublisher(ChangePublisher)                   {}
func (m *MockService) InvalidateEventCache(context.Context, uuid.UUID) {}

func (m *MockService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategoryResponse, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketCategoryResponse), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, eventID uuid.UUID, draft Draft) (*TicketCategoryResponse, error) {
	args := m.Called(ctx, eventID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TicketCategoryResponse), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, eventID, categoryID uuid.UUID, draft Draft) (*TicketCategoryResponse, error) {
	args := m.Called(ctx, eventID, categoryID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TicketCategoryResponse), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, eventID, categoryID uuid.UUID) error {
	args := m.Called(ctx, eventID, categoryID)
	return args.Error(0)
}

func (m *MockService) GetDraft(ctx context.Context, eventID, categoryID uuid.UUID) (*Draft, error) {
	args := m.Called(ctx, eventID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Draft), args.Error(1)
}

func (m *MockService) Preview(ctx context.Context, req ValidateRequest) (*ValidationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ValidationResponse), args.Error(1)
}

func (m *MockService) Suggestions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockService) CheckEventWindow(ctx context.Context, eventID uuid.UUID, window *EventWindow) error {
	args := m.Called(ctx, eventID, window)
	return args.Error(0)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupTicketCategoryRoutes(r.Group("/api/v1"), NewController(svc))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.StandardApiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestController_CreateTicketCategory(t *testing.T) {
	svc := new(MockService)
	eventID := uuid.New()
	draft := vipDraft()
	svc.On("Create", mock.Anything, eventID, draft).
		Return(&TicketCategoryResponse{ID: uuid.NewString(), Name: "VIP"}, nil)

	w, resp := doJSON(t, setupRouter(svc), http.MethodPost, "/api/v1/events/"+eventID.String()+"/ticket-categories", draft)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Ticket category created successfully", resp.Message)
	svc.AssertExpectations(t)
}

func TestController_CreateTicketCategoryValidationError(t *testing.T) {
	svc := new(MockService)
	eventID := uuid.New()
	svc.On("Create", mock.Anything, eventID, mock.AnythingOfType("Draft")).
		Return(nil, &ValidationError{Rule: RuleIdenticalTimes, Message: MsgIdenticalTimes})

	w, resp := doJSON(t, setupRouter(svc), http.MethodPost, "/api/v1/events/"+eventID.String()+"/ticket-categories", vipDraft())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, MsgIdenticalTimes, resp.Message)
	details, ok := resp.Errors.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(RuleIdenticalTimes), details["rule"])
}

func TestController_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"event missing", ErrEventNotFound, http.StatusNotFound},
		{"category missing", ErrTicketCategoryNotFound, http.StatusNotFound},
		{"duplicate", ErrDuplicateName, http.StatusConflict},
		{"quota below sold", ErrQuotaBelowSold, http.StatusConflict},
		{"closed event", ErrEventClosed, http.StatusConflict},
		{"unexpected", errors.New("db gone"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			eventID, categoryID := uuid.New(), uuid.New()
			svc.On("Update", mock.Anything, eventID, categoryID, mock.AnythingOfType("Draft")).Return(nil, tt.err)

			path := "/api/v1/events/" + eventID.String() + "/ticket-categories/" + categoryID.String()
			w, resp := doJSON(t, setupRouter(svc), http.MethodPut, path, vipDraft())

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.code, resp.StatusCode)
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, resp.Message, "db gone")
			}
		})
	}
}

func TestController_InvalidIDs(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/events/not-a-uuid/ticket-categories", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := doJSON(t, r, http.MethodDelete, "/api/v1/events/"+uuid.NewString()+"/ticket-categories/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ticket category ID", resp.Message)

	svc.AssertNotCalled(t, "ListByEvent", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_DeleteAndDraft(t *testing.T) {
	svc := new(MockService)
	eventID, categoryID := uuid.New(), uuid.New()
	svc.On("Delete", mock.Anything, eventID, categoryID).Return(ErrCategoryHasSales).Once()
	d := vipDraft()
	svc.On("GetDraft", mock.Anything, eventID, categoryID).Return(&d, nil)
	r := setupRouter(svc)
	base := "/api/v1/events/" + eventID.String() + "/ticket-categories/" + categoryID.String()

	w, _ := doJSON(t, r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, base+"/draft", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "2025-01-12", data["window_start"])
	assert.Equal(t, "09:00", data["time_start"])
}

func TestController_ValidateTicketCategory(t *testing.T) {
	svc := new(MockService)
	svc.On("Preview", mock.Anything, mock.AnythingOfType("ValidateRequest")).
		Return(&ValidationResponse{Result: Result{Rule: RuleAfterEventEnd, Message: "Ticket sales cannot end after the event ends (2025-01-20)"}}, nil)

	w, resp := doJSON(t, setupRouter(svc), http.MethodPost, "/api/v1/ticket-categories/validate", map[string]interface{}{
		"draft":        vipDraft(),
		"event_window": map[string]string{"start": "2025-01-10", "end": "2025-01-20"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ticket sales cannot end after the event ends (2025-01-20)", resp.Message)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, string(RuleAfterEventEnd), data["rule"])
}

func TestController_ValidateTicketCategoryRejectsBadWindow(t *testing.T) {
	svc := new(MockService)

	w, _ := doJSON(t, setupRouter(svc), http.MethodPost, "/api/v1/ticket-categories/validate", map[string]interface{}{
		"draft":        vipDraft(),
		"event_window": map[string]string{"start": "10/01/2025"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything)
}

func TestController_GetSuggestions(t *testing.T) {
	svc := new(MockService)
	svc.On("Suggestions", mock.Anything).Return(DefaultSuggestions, nil)

	w, resp := doJSON(t, setupRouter(svc), http.MethodGet, "/api/v1/ticket-categories/suggestions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, len(DefaultSuggestions))
}
