package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wayfare/models"
	"wayfare/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func newTestRouter(store *fakeStore) *httprouter.Router {
	h := NewHandler(NewService(store, zap.NewNop()), utils.NewValidator(), zap.NewNop())
	router := httprouter.New()
	router.GET("/api/itinerary/browse-itineraries", h.Browse)
	router.GET("/api/itinerary/view-itinerary/:id", h.View)
	router.POST("/api/itinerary/create-itinerary", h.Create)
	router.DELETE("/api/itinerary/delete-itinerary/:id", h.Delete)
	router.POST("/api/itinerary/save-itinerary", h.Save)
	router.DELETE("/api/itinerary/remove-item/:id", h.RemoveItem)
	router.POST("/api/itinerary/copy-itinerary", h.Copy)
	return router
}

func doJSON(t *testing.T, router *httprouter.Router, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not a JSON object: %v\n%s", err, rec.Body.String())
	}
	return rec, decoded
}

func TestViewHandlerEchoesIdOn404(t *testing.T) {
	rec, body := doJSON(t, newTestRouter(newFakeStore()), http.MethodGet, "/api/itinerary/view-itinerary/042", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["itineraryID"] != "042" {
		t.Fatalf("missing id echo: %v", body)
	}
}

func TestCreateHandlerValidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"startDate":"2026-02-06","endDate":"2026-02-08"}`},
		{"bad start date", `{"itineraryName":"Trip","startDate":"junk","endDate":"2026-02-08"}`},
		{"name too long", `{"itineraryName":"` + strings.Repeat("x", 101) + `","startDate":"2026-02-06","endDate":"2026-02-08"}`},
		{"not json", `{{{`},
	}
	router := newTestRouter(newFakeStore())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doJSON(t, router, http.MethodPost, "/api/itinerary/create-itinerary", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if body["error"] != "Validation failed" {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}
}

func TestCreateHandlerReturns201(t *testing.T) {
	rec, body := doJSON(t, newTestRouter(newFakeStore()), http.MethodPost, "/api/itinerary/create-itinerary",
		`{"itineraryName":"Boston Weekend","startDate":"2026-02-06","endDate":"2026-02-08"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, body)
	}
	created, ok := body["itinerary"].(map[string]any)
	if !ok || created["itineraryID"] != "001" {
		t.Fatalf("unexpected itinerary payload: %v", body)
	}
}

func TestSaveHandlerRejectsOffGridTime(t *testing.T) {
	store := newFakeStore()
	seedItinerary(t, store, "001", "Trip", "2026-02-06", "2026-02-08")

	rec, body := doJSON(t, newTestRouter(store), http.MethodPost, "/api/itinerary/save-itinerary",
		`{"itineraryID":"001","slotData":[{"slotDate":"2026-02-07","slotTime":"13:30","locationID":"100"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %v", rec.Code, body)
	}
}

func TestSaveHandlerPartialSuccess(t *testing.T) {
	store := newFakeStore()
	seedItinerary(t, store, "001", "Trip", "2026-02-06", "2026-02-08")

	rec, body := doJSON(t, newTestRouter(store), http.MethodPost, "/api/itinerary/save-itinerary",
		`{"itineraryID":"001","slotData":[
			{"slotDate":"2026-02-05","slotTime":"09:00","locationID":"100"},
			{"slotDate":"2026-02-07","slotTime":"10:00","locationID":"101"}
		]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, body)
	}
	if body["error"] != true {
		t.Error("aggregate error flag not set")
	}
	if accepted, ok := body["slotData"].([]any); !ok || len(accepted) != 1 {
		t.Fatalf("accepted slots wrong: %v", body["slotData"])
	}
	if failed, ok := body["slotsFailed"].([]any); !ok || len(failed) != 1 {
		t.Fatalf("failed slots wrong: %v", body["slotsFailed"])
	}
}

func TestSaveHandler404OnUnknownItinerary(t *testing.T) {
	rec, body := doJSON(t, newTestRouter(newFakeStore()), http.MethodPost, "/api/itinerary/save-itinerary",
		`{"itineraryID":"404","slotData":[{"slotDate":"2026-02-07","slotTime":"10:00","locationID":"101"}]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %v", rec.Code, body)
	}
}

func TestRemoveItemHandler404(t *testing.T) {
	rec, body := doJSON(t, newTestRouter(newFakeStore()), http.MethodDelete, "/api/itinerary/remove-item/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["slotID"] != "999" {
		t.Fatalf("missing slot id echo: %v", body)
	}
}

func TestCopyHandlerValidatesStartDate(t *testing.T) {
	store := newFakeStore()
	seedItinerary(t, store, "001", "Trip", "2026-02-06", "2026-02-08")

	rec, _ := doJSON(t, newTestRouter(store), http.MethodPost, "/api/itinerary/copy-itinerary",
		`{"itineraryID":"001","itineraryName":"Copy","startDate":"02/03/2026"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCopyHandlerReturnsNewId(t *testing.T) {
	store := newFakeStore()
	seedItinerary(t, store, "001", "Trip", "2026-02-06", "2026-02-08")
	store.InsertSlots(context.Background(), []models.ItinerarySlot{
		{SlotID: "001", ItineraryID: "001", SlotDate: day(t, "2026-02-07"), SlotTime: "09:00", CardID: "100"},
	})

	rec, body := doJSON(t, newTestRouter(store), http.MethodPost, "/api/itinerary/copy-itinerary",
		`{"itineraryID":"001","itineraryName":"Copy","startDate":"2026-03-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %v", rec.Code, body)
	}
	if body["itineraryID"] != "002" {
		t.Fatalf("new id = %v, want 002", body["itineraryID"])
	}
}

func TestDeleteItineraryHandlerCascades(t *testing.T) {
	store := newFakeStore()
	seedItinerary(t, store, "001", "Trip", "2026-02-06", "2026-02-08")
	store.InsertSlots(context.Background(), []models.ItinerarySlot{
		{SlotID: "001", ItineraryID: "001", SlotDate: day(t, "2026-02-07"), SlotTime: "09:00", CardID: "100"},
	})

	rec, body := doJSON(t, newTestRouter(store), http.MethodDelete, "/api/itinerary/delete-itinerary/001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", rec.Code, body)
	}
	if body["slotsRemoved"] != float64(1) {
		t.Fatalf("slotsRemoved = %v, want 1", body["slotsRemoved"])
	}
}
