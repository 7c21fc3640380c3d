package models

import "time"

// Itinerary is a named trip spanning an inclusive date range. Header
// fields are immutable after creation; editing happens through slots.
type Itinerary struct {
	ItineraryID   string    `json:"itineraryID" bson:"itineraryID"`
	ItineraryName string    `json:"itineraryName" bson:"itineraryName"`
	StartDate     time.Time `json:"startDate" bson:"startDate"`
	EndDate       time.Time `json:"endDate" bson:"endDate"`
}

// ItinerarySlot is one occupied (date, hour) cell of an itinerary
// grid. SlotDate is stored pinned to local noon so rendering it back
// as "YYYY-MM-DD" can never land on the wrong day. CardID references
// the location placed in the cell.
type ItinerarySlot struct {
	SlotID      string    `json:"slotID" bson:"slotID"`
	ItineraryID string    `json:"itineraryID" bson:"itineraryID"`
	SlotDate    time.Time `json:"slotDate" bson:"slotDate"`
	SlotTime    string    `json:"slotTime" bson:"slotTime"`
	CardID      string    `json:"cardID" bson:"cardID"`
}
