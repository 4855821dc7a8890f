package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quotify-desktop/quotify/internal/adapters/http/dto"
	"github.com/quotify-desktop/quotify/internal/adapters/http/middleware"
	"github.com/quotify-desktop/quotify/internal/adapters/storage/memory"
	"github.com/quotify-desktop/quotify/internal/app"
	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/mocks"
	"github.com/quotify-desktop/quotify/internal/platform/connectivity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupQuoteHandler creates a QuoteHandler over an engine wired to a
// mock source and in-memory stores.
func setupQuoteHandler(t *testing.T, setupMock func(*mocks.MockQuoteSource)) *QuoteHandler {
	t.Helper()

	mockSource := mocks.NewMockQuoteSource(t)
	if setupMock != nil {
		setupMock(mockSource)
	}

	cache := app.NewQuoteCache(app.QuoteCacheConfig{
		Source:       mockSource,
		Records:      memory.NewRecordStore(),
		Cache:        app.NewNamespacedCache(memory.NewKeyValueStore()),
		Connectivity: connectivity.New(true),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return NewQuoteHandler(QuoteHandlerConfig{
		Cache:               cache,
		DefaultPreloadLimit: 5,
		DefaultMaxAge:       24 * time.Hour,
	})
}

// serveAs runs a handler through a test context carrying the given user.
func serveAs(userID string, params gin.Params, req *http.Request, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(middleware.ContextKeyUserID, userID)

	handle(c)
	c.Writer.WriteHeaderNow()

	return w
}

func TestNewQuoteHandler_PanicsWithoutCache(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteHandler(QuoteHandlerConfig{})
	})
}

func TestToQuoteResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    *domain.Quote
		expected *QuoteResponse
	}{
		{
			name: "full quote",
			input: &domain.Quote{
				ID:     42,
				Text:   "Test content",
				Author: "Test Author",
				Tags:   []string{"tag1", "tag2"},
			},
			expected: &QuoteResponse{
				ID:     42,
				Text:   "Test content",
				Author: "Test Author",
				Tags:   []string{"tag1", "tag2"},
			},
		},
		{
			name: "quote without tags",
			input: &domain.Quote{
				ID:     7,
				Text:   "Another content",
				Author: "Another Author",
				Tags:   nil,
			},
			expected: &QuoteResponse{
				ID:     7,
				Text:   "Another content",
				Author: "Another Author",
				Tags:   nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toQuoteResponse(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQuoteHandler_GetRandomQuote(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mocks.MockQuoteSource)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "success",
			setupMock: func(m *mocks.MockQuoteSource) {
				m.EXPECT().FetchRandom(mock.Anything).Return(&domain.Quote{
					ID:     12,
					Text:   "Random quote content",
					Author: "Random Author",
					Tags:   []string{"inspiration"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp QuoteResponse
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)
				assert.Equal(t, int64(12), resp.ID)
				assert.Equal(t, "Random quote content", resp.Text)
				assert.Equal(t, "Random Author", resp.Author)
			},
		},
		{
			name: "fetch failure with empty corpus maps to 503",
			setupMock: func(m *mocks.MockQuoteSource) {
				m.EXPECT().FetchRandom(mock.Anything).
					Return(nil, domain.NewUnavailableError("quote-service", "timeout"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.ErrorResponse
				err := json.Unmarshal(w.Body.Bytes(), &resp)
				require.NoError(t, err)
				assert.Equal(t, dto.ErrorCodeUnavailable, resp.Error.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupQuoteHandler(t, tt.setupMock)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil)
			w := serveAs("alice", nil, req, handler.GetRandomQuote)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestQuoteHandler_GetQuoteOfDay(t *testing.T) {
	handler := setupQuoteHandler(t, func(m *mocks.MockQuoteSource) {
		m.EXPECT().FetchTotalCount(mock.Anything).Return(int64(100), nil)
		m.EXPECT().FetchByID(mock.Anything, mock.Anything).Return(&domain.Quote{
			ID:     33,
			Text:   "Daily wisdom",
			Author: "Daily Author",
		}, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/today", nil)
	w := serveAs("alice", nil, req, handler.GetQuoteOfDay)

	require.Equal(t, http.StatusOK, w.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(33), resp.ID)
	assert.Equal(t, "Daily wisdom", resp.Text)
}

func TestQuoteHandler_RefreshRandomQuote(t *testing.T) {
	handler := setupQuoteHandler(t, func(m *mocks.MockQuoteSource) {
		m.EXPECT().FetchRandom(mock.Anything).Return(&domain.Quote{
			ID:     77,
			Text:   "Fresh pick",
			Author: "Fresh Author",
		}, nil)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/random/refresh", nil)
	w := serveAs("alice", nil, req, handler.RefreshRandomQuote)

	require.Equal(t, http.StatusOK, w.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(77), resp.ID)
}

func TestQuoteHandler_PreloadQuotes(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockQuoteSource)
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "explicit limit",
			body: `{"limit": 2}`,
			setupMock: func(m *mocks.MockQuoteSource) {
				m.EXPECT().FetchBatch(mock.Anything, 2).Return([]domain.Quote{
					{ID: 1, Text: "First", Author: "Alpha"},
					{ID: 2, Text: "Second", Author: "Beta"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp QuoteListResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, 2, resp.Count)
				assert.Len(t, resp.Quotes, 2)
			},
		},
		{
			name: "empty body uses default limit",
			body: "",
			setupMock: func(m *mocks.MockQuoteSource) {
				m.EXPECT().FetchBatch(mock.Anything, 5).Return([]domain.Quote{
					{ID: 1, Text: "Only", Author: "Alpha"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp QuoteListResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, 1, resp.Count)
			},
		},
		{
			name:           "limit above maximum rejected",
			body:           `{"limit": 9000}`,
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupQuoteHandler(t, tt.setupMock)

			var body io.Reader
			if tt.body != "" {
				body = bytes.NewBufferString(tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/preload", body)
			req.Header.Set("Content-Type", "application/json")
			w := serveAs("alice", nil, req, handler.PreloadQuotes)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestQuoteHandler_CacheStale(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectStale    bool
	}{
		{
			name:           "never preloaded is stale",
			query:          "",
			expectedStatus: http.StatusOK,
			expectStale:    true,
		},
		{
			name:           "invalid max_age rejected",
			query:          "?max_age=yesterday",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative max_age rejected",
			query:          "?max_age=-1h",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupQuoteHandler(t, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/cache/stale"+tt.query, nil)
			w := serveAs("alice", nil, req, handler.CacheStale)

			require.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp staleResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectStale, resp.Stale)
			}
		})
	}
}

func TestQuoteHandler_Favorites(t *testing.T) {
	handler := setupQuoteHandler(t, nil)

	idParam := gin.Params{{Key: "id", Value: "42"}}
	favoriteBody := `{"text": "Keep going", "author": "Someone"}`

	addReq := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/42",
		bytes.NewBufferString(favoriteBody))
	addReq.Header.Set("Content-Type", "application/json")
	w := serveAs("alice", idParam, addReq, handler.AddFavorite)
	require.Equal(t, http.StatusOK, w.Code)

	checkReq := httptest.NewRequest(http.MethodGet, "/api/v1/favorites/42", nil)
	w = serveAs("alice", idParam, checkReq, handler.CheckFavorite)
	require.Equal(t, http.StatusOK, w.Code)

	var status favoriteStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Favorite)

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	w = serveAs("alice", nil, listReq, handler.GetFavorites)
	require.Equal(t, http.StatusOK, w.Code)

	var list QuoteListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Keep going", list.Quotes[0].Text)

	removeReq := httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/42", nil)
	w = serveAs("alice", idParam, removeReq, handler.RemoveFavorite)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = serveAs("alice", idParam, checkReq, handler.CheckFavorite)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Favorite)
}

func TestQuoteHandler_AddFavorite_Validation(t *testing.T) {
	tests := []struct {
		name    string
		idParam string
		body    string
	}{
		{
			name:    "non-numeric ID",
			idParam: "abc",
			body:    `{"text": "x", "author": "y"}`,
		},
		{
			name:    "zero ID",
			idParam: "0",
			body:    `{"text": "x", "author": "y"}`,
		},
		{
			name:    "missing text",
			idParam: "42",
			body:    `{"author": "y"}`,
		},
		{
			name:    "blank author",
			idParam: "42",
			body:    `{"text": "x", "author": "   "}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupQuoteHandler(t, nil)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/"+tt.idParam,
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := serveAs("alice", gin.Params{{Key: "id", Value: tt.idParam}}, req, handler.AddFavorite)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
