package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reviewhub/internal/api/routes"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/utils"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	routes.SetupRoutes(router, db, &config.Config{
		Environment:    "test",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var response utils.APIResponse
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	}
	return recorder, response
}

func createReviewHTTP(t *testing.T, router *gin.Engine, entityID, userID string, rating int) uint {
	t.Helper()

	recorder, response := doJSON(t, router, http.MethodPost, "/api/v1/reviews/", gin.H{
		"entity_type": "PRODUCT",
		"entity_id":   entityID,
		"user_id":     userID,
		"rating":      rating,
		"title":       "t",
		"comment":     "c",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, response.Error)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	return uint(data["id"].(float64))
}

func TestCreateReviewEndpoint(t *testing.T) {
	router := newTestRouter(t)

	reviewID := createReviewHTTP(t, router, "P1", "U1", 5)
	assert.NotZero(t, reviewID)

	// Duplicate submission by the same user maps to 409.
	recorder, _ := doJSON(t, router, http.MethodPost, "/api/v1/reviews/", gin.H{
		"entity_type": "PRODUCT",
		"entity_id":   "P1",
		"user_id":     "U1",
		"rating":      3,
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Missing required fields map to 400.
	recorder, _ = doJSON(t, router, http.MethodPost, "/api/v1/reviews/", gin.H{
		"entity_type": "PRODUCT",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestErrorCategoryStatusMapping(t *testing.T) {
	router := newTestRouter(t)
	reviewID := createReviewHTTP(t, router, "P1", "U1", 5)

	// Unknown review -> 404.
	recorder, _ := doJSON(t, router, http.MethodGet, "/api/v1/reviews/9999", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// Non-owner delete -> 403.
	recorder, _ = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/reviews/%d?userId=U2", reviewID), nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Out-of-range rating on update -> 400.
	recorder, _ = doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/reviews/%d", reviewID), gin.H{
			"user_id": "U1",
			"rating":  9,
		})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Owner delete succeeds.
	recorder, _ = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/reviews/%d?userId=U1", reviewID), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRatingSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// No aggregation has run for this key yet.
	recorder, _ := doJSON(t, router, http.MethodGet,
		"/api/v1/ratings/?entityType=PRODUCT&entityId=P9", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	createReviewHTTP(t, router, "P9", "U1", 5)
	createReviewHTTP(t, router, "P9", "U2", 3)

	recorder, response := doJSON(t, router, http.MethodGet,
		"/api/v1/ratings/?entityType=PRODUCT&entityId=P9", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 4.0, data["average_rating"])
	assert.Equal(t, 2.0, data["total_reviews"])

	// Forced refresh is idempotent.
	recorder, _ = doJSON(t, router, http.MethodPost,
		"/api/v1/ratings/refresh?entityType=PRODUCT&entityId=P9", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestHelpfulnessEndpoint(t *testing.T) {
	router := newTestRouter(t)
	reviewID := createReviewHTTP(t, router, "P1", "U1", 4)

	recorder, _ := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/reviews/%d/helpfulness", reviewID), gin.H{
			"user_id": "A",
			"helpful": true,
		})
	assert.Equal(t, http.StatusOK, recorder.Code)

	_, response := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/reviews/%d", reviewID), nil)
	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, data["helpful_count"])

	// Vote on a missing review -> 404.
	recorder, _ = doJSON(t, router, http.MethodPost,
		"/api/v1/reviews/4242/helpfulness", gin.H{
			"user_id": "A",
			"helpful": false,
		})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddResponseEndpoint(t *testing.T) {
	router := newTestRouter(t)
	reviewID := createReviewHTTP(t, router, "P1", "U1", 4)

	recorder, response := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/reviews/%d/responses", reviewID), gin.H{
			"responder_id":   "V1",
			"responder_type": "VENDOR",
			"response":       "thank you",
		})
	require.Equal(t, http.StatusCreated, recorder.Code)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "thank you", data["response"])
}

func TestListReviewsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createReviewHTTP(t, router, "P1", "U1", 5)
	createReviewHTTP(t, router, "P1", "U2", 2)

	recorder, response := doJSON(t, router, http.MethodGet,
		"/api/v1/reviews/?entityType=PRODUCT&entityId=P1&minRating=4", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, data["total"])

	// entityType/entityId are mandatory.
	recorder, _ = doJSON(t, router, http.MethodGet, "/api/v1/reviews/", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
