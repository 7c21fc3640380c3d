package models

// Location is a point of interest that can be dropped into an
// itinerary slot. Category holds a categoryID, not the display name.
type Location struct {
	LocationID          string  `json:"locationID" bson:"locationID"`
	LocationName        string  `json:"locationName" bson:"locationName"`
	LocationDescription string  `json:"locationDescription" bson:"locationDescription"`
	LocationImage       string  `json:"locationImage" bson:"locationImage"`
	TimeToComplete      int     `json:"timeToComplete" bson:"timeToComplete"`
	DistanceToPT        int     `json:"distanceToPublicTransport" bson:"distanceToPublicTransport"`
	Category            string  `json:"category" bson:"category"`
	StarRating          float64 `json:"starRating" bson:"starRating"`
	NumRaters           int     `json:"numRaters" bson:"numRaters"`
	Address             string  `json:"address" bson:"address"`
	Neighborhood        string  `json:"neighborhood,omitempty" bson:"neighborhood,omitempty"`
}

type Category struct {
	CategoryID   string `json:"categoryID" bson:"categoryID"`
	CategoryName string `json:"categoryName" bson:"categoryName"`
}
