package itinerary

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfare/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(svc *Service, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

type CreateRequest struct {
	ItineraryName string `json:"itineraryName" validate:"required,max=100"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

type SaveRequest struct {
	ItineraryID string        `json:"itineraryID" validate:"required"`
	SlotData    []SlotRequest `json:"slotData" validate:"required,min=1,dive"`
}

type CopyRequest struct {
	ItineraryID   string `json:"itineraryID" validate:"required"`
	ItineraryName string `json:"itineraryName" validate:"required,max=100"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// GET /api/itinerary/browse-itineraries
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summaries, err := h.svc.Browse(r.Context())
	if err != nil {
		h.fail(w, err, utils.M{})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summaries)
}

// GET /api/itinerary/view-itinerary/:id
func (h *Handler) View(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	view, err := h.svc.View(r.Context(), id)
	if err != nil {
		h.fail(w, err, utils.M{"itineraryID": id})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// POST /api/itinerary/create-itinerary
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRequest
	if !h.decode(w, r, &req) {
		return
	}
	it, err := h.svc.Create(r.Context(), req.ItineraryName, req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, err, utils.M{})
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":   "itinerary created successfully",
		"itinerary": it,
	})
}

// DELETE /api/itinerary/delete-itinerary/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	removedSlots, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, err, utils.M{"itineraryID": id})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"error":        false,
		"message":      "itinerary deleted successfully",
		"slotsRemoved": removedSlots,
	})
}

// POST /api/itinerary/save-itinerary
func (h *Handler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req SaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.svc.SaveSlots(r.Context(), req.ItineraryID, req.SlotData)
	if err != nil {
		h.fail(w, err, utils.M{"itineraryID": req.ItineraryID})
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, result)
}

// DELETE /api/itinerary/remove-item/:id
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.svc.DeleteSlot(r.Context(), id); err != nil {
		h.fail(w, err, utils.M{"slotID": id})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"error":   false,
		"message": "Deleted Successfully",
	})
}

// POST /api/itinerary/copy-itinerary
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CopyRequest
	if !h.decode(w, r, &req) {
		return
	}
	newID, err := h.svc.Copy(r.Context(), req.ItineraryID, req.ItineraryName, req.StartDate)
	if err != nil {
		h.fail(w, err, utils.M{"itineraryID": req.ItineraryID})
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":     "itinerary copied successfully",
		"itineraryID": newID,
	})
}

// decode unmarshals and validates the request body, answering 400 with
// itemized details on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":   "Validation failed",
			"details": []string{"invalid request payload"},
		})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":   "Validation failed",
			"details": utils.ValidationDetails(err),
		})
		return false
	}
	return true
}

// fail maps scheduler errors onto the wire: 404s echo the id that
// missed, bad dates are 400, anything else is a storage failure
// reported as 500 with the original error text.
func (h *Handler) fail(w http.ResponseWriter, err error, echo utils.M) {
	switch {
	case errors.Is(err, ErrItineraryNotFound), errors.Is(err, ErrSlotNotFound):
		body := utils.M{"error": err.Error()}
		for k, v := range echo {
			body[k] = v
		}
		utils.RespondWithJSON(w, http.StatusNotFound, body)
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidRange):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("itinerary request failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
