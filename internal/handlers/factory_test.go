package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/utils"
	"gotours/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryResource struct {
	docs       map[primitive.ObjectID]*models.Tour
	lastUpdate map[string]interface{}
}

func newMemoryResource() *memoryResource {
	return &memoryResource{docs: make(map[primitive.ObjectID]*models.Tour)}
}

func (m *memoryResource) FindByID(_ context.Context, id primitive.ObjectID) (*models.Tour, error) {
	if doc, ok := m.docs[id]; ok {
		return doc, nil
	}
	return nil, utils.NotFoundError("tour")
}

func (m *memoryResource) FindMany(_ context.Context, preFilter bson.M, features *utils.APIFeatures) ([]*models.Tour, error) {
	out := []*models.Tour{}
	for _, doc := range m.docs {
		if difficulty, ok := features.Query["difficulty"].(string); ok && string(doc.Difficulty) != difficulty {
			continue
		}
		out = append(out, doc)
	}
	if features.Options.Limit != nil && int64(len(out)) > *features.Options.Limit {
		out = out[:*features.Options.Limit]
	}
	return out, nil
}

func (m *memoryResource) Count(_ context.Context, _ bson.M, _ *utils.APIFeatures) (int64, error) {
	return int64(len(m.docs)), nil
}

func (m *memoryResource) Create(_ context.Context, doc *models.Tour) (*models.Tour, error) {
	doc.ID = primitive.NewObjectID()
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *memoryResource) UpdateByID(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Tour, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, utils.NotFoundError("tour")
	}
	m.lastUpdate = updates
	if price, ok := updates["price"].(float64); ok {
		doc.Price = price
	}
	return doc, nil
}

func (m *memoryResource) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.docs[id]; !ok {
		return utils.NotFoundError("tour")
	}
	delete(m.docs, id)
	return nil
}

func newTestRouter(t *testing.T, resource *memoryResource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	h := &crudHandlers[models.Tour]{
		repo:     resource,
		resource: "tour",
		prepare: func(_ *gin.Context, tour *models.Tour) error {
			tour.PrepareForCreate()
			return tour.Validate()
		},
		sanitize: models.SanitizeTourUpdate,
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log, false))
	router.GET("/tours", h.GetAll)
	router.GET("/tours/:id", h.GetOne)
	router.POST("/tours", h.CreateOne)
	router.PATCH("/tours/:id", h.UpdateOne)
	router.DELETE("/tours/:id", h.DeleteOne)
	return router
}

func seedTour(resource *memoryResource, name string, difficulty models.Difficulty, price float64) *models.Tour {
	tour := &models.Tour{
		Name:         name,
		Duration:     5,
		MaxGroupSize: 10,
		Difficulty:   difficulty,
		Price:        price,
		Summary:      "A seeded tour",
		ImageCover:   "cover.jpg",
	}
	created, _ := resource.Create(context.Background(), tour)
	return created
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.Unmarshal(body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return envelope
}

func TestGetAll_EnvelopeAndResults(t *testing.T) {
	resource := newMemoryResource()
	seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	seedTour(resource, "The Sea Explorer", models.DifficultyMedium, 497)
	router := newTestRouter(t, resource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	envelope := decodeEnvelope(t, w.Body)
	if envelope["status"] != "success" {
		t.Fatalf("expected success status, got %v", envelope["status"])
	}
	if envelope["results"] != float64(2) {
		t.Fatalf("expected results 2, got %v", envelope["results"])
	}
}

func TestGetAll_FilterFromQuery(t *testing.T) {
	resource := newMemoryResource()
	seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	seedTour(resource, "The Sea Explorer", models.DifficultyMedium, 497)
	router := newTestRouter(t, resource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours?difficulty=easy", nil)
	router.ServeHTTP(w, req)

	envelope := decodeEnvelope(t, w.Body)
	if envelope["results"] != float64(1) {
		t.Fatalf("expected one easy tour, got %v", envelope["results"])
	}
}

func TestGetOne_NotFound(t *testing.T) {
	router := newTestRouter(t, newMemoryResource())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours/"+primitive.NewObjectID().Hex(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	envelope := decodeEnvelope(t, w.Body)
	if envelope["status"] != "fail" {
		t.Fatalf("expected fail status, got %v", envelope["status"])
	}
}

func TestGetOne_InvalidID(t *testing.T) {
	router := newTestRouter(t, newMemoryResource())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours/not-an-id", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateOne_ValidatesBody(t *testing.T) {
	resource := newMemoryResource()
	router := newTestRouter(t, resource)

	body := `{"name":"The Forest Hiker","duration":5,"max_group_size":10,"difficulty":"easy","price":397,"summary":"Lovely","image_cover":"c.jpg"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tours", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(resource.docs) != 1 {
		t.Fatalf("expected the tour to be stored")
	}

	// Invalid per the model: name below the minimum length.
	w = httptest.NewRecorder()
	bad := `{"name":"Short","duration":5,"max_group_size":10,"difficulty":"easy","price":397,"summary":"s","image_cover":"c.jpg"}`
	req = httptest.NewRequest(http.MethodPost, "/tours", bytes.NewBufferString(bad))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid tour, got %d", w.Code)
	}
}

func TestUpdateOne_AppliesChanges(t *testing.T) {
	resource := newMemoryResource()
	tour := seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	router := newTestRouter(t, resource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/tours/"+tour.ID.Hex(), bytes.NewBufferString(`{"price":450}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resource.docs[tour.ID].Price != 450 {
		t.Fatalf("expected price update to apply")
	}
}

func TestGetAll_PageBeyondCollection(t *testing.T) {
	resource := newMemoryResource()
	seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	router := newTestRouter(t, resource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours?page=5&limit=10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a page past the collection, got %d", w.Code)
	}
}

func TestUpdateOne_StripsServerOwnedFields(t *testing.T) {
	resource := newMemoryResource()
	tour := seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	router := newTestRouter(t, resource)

	body := `{"price":450,"ratings_average":1.2,"ratings_quantity":999,"secret_tour":true,"created_at":"2020-01-01T00:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/tours/"+tour.ID.Hex(), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, key := range []string{"ratings_average", "ratings_quantity", "secret_tour", "created_at"} {
		if _, ok := resource.lastUpdate[key]; ok {
			t.Fatalf("server-owned field %q must not reach the store", key)
		}
	}
	if resource.docs[tour.ID].Price != 450 {
		t.Fatalf("expected the allowed price change to apply")
	}
}

func TestUpdateOne_RejectsInvalidValues(t *testing.T) {
	resource := newMemoryResource()
	tour := seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	router := newTestRouter(t, resource)

	for _, body := range []string{
		`{"price":-50}`,
		`{"name":"x"}`,
		`{"difficulty":"impossible"}`,
		`{"ratings_average":1.2}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/tours/"+tour.ID.Hex(), bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if resource.lastUpdate != nil {
		t.Fatalf("no write must reach the store, got %v", resource.lastUpdate)
	}
}

func TestDeleteOne(t *testing.T) {
	resource := newMemoryResource()
	tour := seedTour(resource, "The Forest Hiker", models.DifficultyEasy, 397)
	router := newTestRouter(t, resource)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/tours/"+tour.ID.Hex(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(resource.docs) != 0 {
		t.Fatalf("expected the tour to be removed")
	}

	// Deleting again reports not found.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/tours/"+tour.ID.Hex(), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", w.Code)
	}
}
