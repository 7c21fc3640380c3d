package locations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wayfare/db"
	"wayfare/ids"
	"wayfare/models"
	"wayfare/rdx"
	"wayfare/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	browseCachePrefix = "locations:browse:"
	maxPageSize       = 100
)

type Handler struct {
	db       *db.Database
	alloc    ids.Allocator
	cache    *rdx.Cache
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(database *db.Database, alloc ids.Allocator, cache *rdx.Cache, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{db: database, alloc: alloc, cache: cache, validate: validate, log: log}
}

type browseQuery struct {
	Category     string
	Neighborhood string
	Query        string
	Sort         string
	Order        string
	Page         int
	Limit        int
}

func parseBrowseQuery(r *http.Request) browseQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return browseQuery{
		Category:     q.Get("category"),
		Neighborhood: q.Get("neighborhood"),
		Query:        strings.TrimSpace(q.Get("query")),
		Sort:         q.Get("sort"),
		Order:        q.Get("order"),
		Page:         page,
		Limit:        limit,
	}
}

func (bq browseQuery) cacheKey() string {
	return fmt.Sprintf("%s%s|%s|%s|%s|%s|%d|%d", browseCachePrefix,
		bq.Category, bq.Neighborhood, bq.Query, bq.Sort, bq.Order, bq.Page, bq.Limit)
}

func (bq browseQuery) filter() bson.M {
	filter := bson.M{}
	if bq.Category != "" {
		filter["category"] = bq.Category
	}
	if bq.Neighborhood != "" {
		filter["neighborhood"] = bq.Neighborhood
	}
	// case-insensitive search over name and description
	if bq.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"locationName": bson.M{"$regex": bq.Query, "$options": "i"}},
			bson.M{"locationDescription": bson.M{"$regex": bq.Query, "$options": "i"}},
		}
	}
	return filter
}

// sortSpec whitelists the sortable fields; anything else falls back to
// rating, descending unless order=asc.
func (bq browseQuery) sortSpec() bson.D {
	allowed := map[string]string{
		"rating":       "starRating",
		"name":         "locationName",
		"category":     "category",
		"neighborhood": "neighborhood",
	}
	field, ok := allowed[bq.Sort]
	if !ok {
		field = "starRating"
	}
	dir := -1
	if bq.Order == "asc" {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}

// GET /api/locations/browse-locations
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bq := parseBrowseQuery(r)

	var cached []models.Location
	if h.cache.Get(ctx, bq.cacheKey(), &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	opts := options.Find().
		SetSort(bq.sortSpec()).
		SetSkip(int64((bq.Page - 1) * bq.Limit)).
		SetLimit(int64(bq.Limit)).
		SetProjection(bson.M{
			"_id":            0,
			"locationID":     1,
			"locationName":   1,
			"category":       1,
			"starRating":     1,
			"address":        1,
			"locationImage":  1,
			"timeToComplete": 1,
			"neighborhood":   1,
		})

	locations, err := utils.FindAndDecode[models.Location](ctx, h.db.Locations, bq.filter(), opts)
	if err != nil {
		h.log.Error("browse locations failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}

	h.cache.Set(ctx, bq.cacheKey(), locations)
	utils.RespondWithJSON(w, http.StatusOK, locations)
}

// GET /api/locations/view-location/:id
func (h *Handler) View(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("id")
	var loc models.Location
	err := h.db.Locations.FindOne(ctx, bson.M{"locationID": id}).Decode(&loc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"error":      "location not found",
			"locationID": id,
		})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loc)
}
