package itinerary

import "errors"

var (
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrSlotNotFound      = errors.New("itinerary item not found")
	ErrInvalidDate       = errors.New("invalid start date format")
	ErrInvalidRange      = errors.New("endDate must be after or equal to startDate")
)
