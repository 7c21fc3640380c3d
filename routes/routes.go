package routes

import (
	"net/http"

	"wayfare/categories"
	"wayfare/itinerary"
	"wayfare/locations"
	"wayfare/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddItineraryRoutes(router *httprouter.Router, h *itinerary.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/itinerary/browse-itineraries", h.Browse)
	router.GET("/api/itinerary/view-itinerary/:id", h.View)
	router.POST("/api/itinerary/create-itinerary", rl.Limit(h.Create))
	router.DELETE("/api/itinerary/delete-itinerary/:id", rl.Limit(h.Delete))
	router.POST("/api/itinerary/save-itinerary", rl.Limit(h.Save))
	router.DELETE("/api/itinerary/remove-item/:id", rl.Limit(h.RemoveItem))
	router.POST("/api/itinerary/copy-itinerary", rl.Limit(h.Copy))
}

func AddLocationRoutes(router *httprouter.Router, h *locations.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/locations/browse-locations", h.Browse)
	router.GET("/api/locations/view-location/:id", h.View)
	router.POST("/api/locations/create-location", rl.Limit(h.Create))
	router.PATCH("/api/locations/update-location/:id", rl.Limit(h.Update))
	router.DELETE("/api/locations/delete-location/:id", rl.Limit(h.Delete))
}

func AddCategoryRoutes(router *httprouter.Router, h *categories.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/categories/list-categories", h.List)
	router.POST("/api/categories/propose-categories", rl.Limit(h.Propose))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/client/*filepath", http.Dir("client"))
}
