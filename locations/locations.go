// Package locations serves the point-of-interest catalog the planner
// places into itinerary slots.
package locations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"wayfare/models"
	"wayfare/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreateRequest struct {
	LocationName        string `json:"locationName" validate:"required,max=100"`
	LocationDescription string `json:"locationDescription" validate:"required"`
	LocationImage       string `json:"locationImage"`
	TimeToComplete      int    `json:"timeToComplete" validate:"gte=0"`
	DistanceToPT        int    `json:"distanceToPublicTransport" validate:"gte=0"`
	Category            string `json:"category" validate:"required"`
	Address             string `json:"address" validate:"required"`
	Neighborhood        string `json:"neighborhood"`
}

// POST /api/locations/create-location
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"error":   "Validation failed",
			"details": utils.ValidationDetails(err),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// clients submit the category by name; slots store the id
	var category models.Category
	err := h.db.Categories.FindOne(ctx, bson.M{"categoryName": req.Category}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown category: "+req.Category)
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, err := h.alloc.NextID(ctx, h.db.Locations, "locationID")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	loc := models.Location{
		LocationID:          id,
		LocationName:        req.LocationName,
		LocationDescription: req.LocationDescription,
		LocationImage:       req.LocationImage,
		TimeToComplete:      req.TimeToComplete,
		DistanceToPT:        req.DistanceToPT,
		Category:            category.CategoryID,
		StarRating:          0,
		NumRaters:           0,
		Address:             req.Address,
		Neighborhood:        req.Neighborhood,
	}
	if _, err := h.db.Locations.InsertOne(ctx, loc); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.InvalidatePrefix(ctx, browseCachePrefix)
	utils.RespondWithJSON(w, http.StatusCreated, loc)
}

// PATCH /api/locations/update-location/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	// the business id and storage id are immutable
	delete(patch, "locationID")
	delete(patch, "_id")
	if len(patch) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no updatable fields in payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.db.Locations.UpdateOne(ctx, bson.M{"locationID": id}, bson.M{"$set": patch})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"error":      "location not found",
			"locationID": id,
		})
		return
	}

	var updated models.Location
	if err := h.db.Locations.FindOne(ctx, bson.M{"locationID": id}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.InvalidatePrefix(ctx, browseCachePrefix)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/locations/delete-location/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// refuse to delete a location that itineraries still reference
	used, err := h.db.Slots.CountDocuments(ctx, bson.M{"cardID": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if used > 0 {
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{
			"error":   "location cannot be deleted, used in itineraries",
			"inSlots": used,
		})
		return
	}

	res, err := h.db.Locations.DeleteOne(ctx, bson.M{"locationID": id})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"error":      "location not found",
			"locationID": id,
		})
		return
	}

	h.cache.InvalidatePrefix(ctx, browseCachePrefix)
	h.log.Info("location deleted", zap.String("locationID", id))
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"error":   false,
		"message": "successfully deleted location",
	})
}
