package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/api/dto"
	"storefront/internal/api/handler"
	"storefront/internal/api/models"
	"storefront/internal/api/repository"
	"storefront/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// --- MOCK SERVICE ---

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, skip, limit int) ([]models.Item, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) GetByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Create(ctx context.Context, ownerID int64, in dto.CreateItemDTO) (*models.Item, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, id int64, in dto.UpdateItemDTO) (*models.Item, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemService) Search(ctx context.Context, query string, minPrice, maxPrice *float64) ([]models.Item, error) {
	args := m.Called(ctx, query, minPrice, maxPrice)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) UserStatistics(ctx context.Context, userID int64) (*repository.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserStats), args.Error(1)
}

func (m *MockItemService) Recent(ctx context.Context, days int) ([]models.Item, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Expensive(ctx context.Context, threshold float64) ([]models.Item, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) BulkUpdateAvailability(ctx context.Context, itemIDs []int64, isAvailable bool) (int64, error) {
	args := m.Called(ctx, itemIDs, isAvailable)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemService) WithOwner(ctx context.Context) ([]repository.ItemWithOwner, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.ItemWithOwner), args.Error(1)
}

// --- SETUP ---

func setupItemRouter(mockService *MockItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewItemHandler(mockService)
	h.RegisterRoutes(r.Group("/api/items"))
	return r
}

// --- TESTS ---

func TestItemHandler_List(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	expected := []models.Item{
		{ID: 1, Title: "Widget", Price: 10.0, IsAvailable: true, OwnerID: 1},
		{ID: 2, Title: "Gadget", Price: 25.0, IsAvailable: false, OwnerID: 1, Description: stringPtr("a gadget")},
	}

	t.Run("Success_Defaults", func(t *testing.T) {
		mockService.On("List", mock.Anything, 0, 100).Return(expected, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []dto.ItemResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response, 2)
		assert.Equal(t, "Widget", response[0].Title)
		assert.Equal(t, int64(1), response[0].OwnerID)
		mockService.AssertExpectations(t)
	})

	t.Run("LimitClampedTo100", func(t *testing.T) {
		mockService.On("List", mock.Anything, 5, 100).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items?skip=5&limit=500", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("LimitClampedUpTo1", func(t *testing.T) {
		mockService.On("List", mock.Anything, 0, 1).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items?limit=0", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyListIs200", func(t *testing.T) {
		mockService.On("List", mock.Anything, 0, 100).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestItemHandler_Get(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		created := time.Now().Add(-time.Hour)
		mockService.On("GetByID", mock.Anything, int64(7)).Return(&models.Item{
			ID: 7, Title: "Widget", Price: 10, IsAvailable: true, OwnerID: 3, CreatedAt: created,
		}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/7", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ItemResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(7), response.ID)
		assert.Nil(t, response.UpdatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("GetByID", mock.Anything, int64(999)).Return(nil, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/items/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_Create(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	createDTO := dto.CreateItemDTO{Title: "Widget", Price: 10.0}

	t.Run("Success", func(t *testing.T) {
		mockService.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(in dto.CreateItemDTO) bool {
			return in.Title == "Widget" && in.Price == 10.0
		})).Return(&models.Item{ID: 1, Title: "Widget", Price: 10.0, IsAvailable: true, OwnerID: 1}, nil).Once()

		body, _ := json.Marshal(createDTO)
		req, _ := http.NewRequest(http.MethodPost, "/api/items?user_id=1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.ItemResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(1), response.OwnerID)
		mockService.AssertExpectations(t)
	})

	t.Run("OwnerMissing", func(t *testing.T) {
		mockService.On("Create", mock.Anything, int64(42), mock.Anything).
			Return(nil, service.ErrOwnerNotFound).Once()

		body, _ := json.Marshal(createDTO)
		req, _ := http.NewRequest(http.MethodPost, "/api/items?user_id=42", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		body, _ := json.Marshal(createDTO)
		req, _ := http.NewRequest(http.MethodPost, "/api/items", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonPositivePriceRejected", func(t *testing.T) {
		body, _ := json.Marshal(dto.CreateItemDTO{Title: "Freebie", Price: 0})
		req, _ := http.NewRequest(http.MethodPost, "/api/items?user_id=1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingTitleRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"price": 5.0})
		req, _ := http.NewRequest(http.MethodPost, "/api/items?user_id=1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_Update(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("PartialUpdate", func(t *testing.T) {
		now := time.Now()
		mockService.On("Update", mock.Anything, int64(10), mock.MatchedBy(func(in dto.UpdateItemDTO) bool {
			return in.Price != nil && *in.Price == 20.0 && in.Title == nil
		})).Return(&models.Item{
			ID: 10, Title: "Widget", Price: 20.0, IsAvailable: true, OwnerID: 1, UpdatedAt: &now,
		}, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{"price": 20.0})
		req, _ := http.NewRequest(http.MethodPut, "/api/items/10", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ItemResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, 20.0, response.Price)
		assert.Equal(t, "Widget", response.Title)
		assert.NotNil(t, response.UpdatedAt)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Update", mock.Anything, int64(999), mock.Anything).Return(nil, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{"price": 20.0})
		req, _ := http.NewRequest(http.MethodPut, "/api/items/999", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NonPositivePriceRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"price": -1.0})
		req, _ := http.NewRequest(http.MethodPut, "/api/items/10", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_Delete(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, int64(55)).Return(true, nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/items/55", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, int64(999)).Return(false, nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/items/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestItemHandler_Search(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("Success_WithPriceBounds", func(t *testing.T) {
		mockService.On("Search", mock.Anything, "widget",
			mock.MatchedBy(func(p *float64) bool { return p != nil && *p == 5.0 }),
			mock.MatchedBy(func(p *float64) bool { return p != nil && *p == 50.0 }),
		).Return([]models.Item{{ID: 1, Title: "Widget", Price: 10}}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/search/query?q=widget&min_price=5&max_price=50", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingQuery", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/items/search/query", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidMinPrice", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/items/search/query?q=widget&min_price=cheap", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_Recent(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Recent", mock.Anything, 7).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/recent/7", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidDays", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/items/recent/soon", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_UserStatistics(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("ZeroItemsIsStillOK", func(t *testing.T) {
		mockService.On("UserStatistics", mock.Anything, int64(3)).
			Return(&repository.UserStats{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/stats/3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.UserStatsResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, int64(0), response.TotalItems)
		assert.Equal(t, 0.0, response.TotalValue)
		assert.Equal(t, 0.0, response.AveragePrice)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mockService.On("UserStatistics", mock.Anything, int64(42)).
			Return(nil, service.ErrOwnerNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/stats/42", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestItemHandler_BulkAvailability(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("UnknownIDsSilentlyIgnored", func(t *testing.T) {
		mockService.On("BulkUpdateAvailability", mock.Anything, []int64{1, 2, 999}, false).
			Return(int64(2), nil).Once()

		body, _ := json.Marshal(dto.BulkAvailabilityDTO{ItemIDs: []int64{1, 2, 999}, IsAvailable: boolPtr(false)})
		req, _ := http.NewRequest(http.MethodPut, "/api/items/bulk/availability", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(2), response["updated_count"])
		assert.NotEmpty(t, response["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyIDListRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"item_ids": []int64{}, "is_available": true})
		req, _ := http.NewRequest(http.MethodPut, "/api/items/bulk/availability", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestItemHandler_Expensive(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	t.Run("DefaultThreshold", func(t *testing.T) {
		mockService.On("Expensive", mock.Anything, 100.0).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/expensive/list", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("CustomThreshold", func(t *testing.T) {
		mockService.On("Expensive", mock.Anything, 250.0).Return([]models.Item{}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/items/expensive/list?threshold=250", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestItemHandler_WithOwner(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	mockService.On("WithOwner", mock.Anything).Return([]repository.ItemWithOwner{
		{ItemID: 1, Title: "Widget", Price: 10, OwnerUsername: "alice", OwnerEmail: "a@x.com"},
	}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/items/owners/list", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []dto.ItemWithOwnerResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response, 1)
	assert.Equal(t, "alice", response[0].OwnerUsername)
	assert.Equal(t, "a@x.com", response[0].OwnerEmail)
}

func TestItemHandler_ListByOwner(t *testing.T) {
	mockService := new(MockItemService)
	r := setupItemRouter(mockService)

	mockService.On("GetByOwner", mock.Anything, int64(3)).Return([]models.Item{
		{ID: 1, Title: "Widget", OwnerID: 3, Price: 10},
	}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/items/user/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []dto.ItemResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response, 1)
	assert.Equal(t, int64(3), response[0].OwnerID)
}
