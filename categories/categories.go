// Package categories exposes the location category list used for
// filter facets and the propose endpoint that grows it.
package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"wayfare/db"
	"wayfare/ids"
	"wayfare/models"
	"wayfare/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Handler struct {
	db       *db.Database
	alloc    ids.Allocator
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(database *db.Database, alloc ids.Allocator, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{db: database, alloc: alloc, validate: validate, log: log}
}

type ProposeRequest struct {
	CategoryName string `json:"categoryName" validate:"required,max=50"`
}

// GET /api/categories/list-categories
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := utils.FindAndDecode[models.Category](ctx, h.db.Categories, bson.M{})
	if err != nil {
		h.log.Error("list categories failed", zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
			"error":      true,
			"message":    err.Error(),
			"categories": []string{},
		})
		return
	}

	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.CategoryName)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"error":      false,
		"message":    "fetched categories successfully",
		"categories": names,
	})
}

// POST /api/categories/propose-categories
func (h *Handler) Propose(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ProposeRequest
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

	id, err := h.alloc.NextID(ctx, h.db.Categories, "categoryID")
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	category := models.Category{CategoryID: id, CategoryName: req.CategoryName}
	if _, err := h.db.Categories.InsertOne(ctx, category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"error":    false,
		"message":  "Successfully added category",
		"category": category,
	})
}
