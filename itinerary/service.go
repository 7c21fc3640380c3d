// Package itinerary implements the slot-scheduling engine: mapping an
// itinerary's date range onto the hourly grid, validating and saving
// slot placements, and cloning a whole schedule onto a new start date.
package itinerary

import (
	"context"
	"fmt"
	"strconv"

	"wayfare/dates"
	"wayfare/ids"
	"wayfare/models"

	"go.uber.org/zap"
)

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Summary is the browse-itineraries shape: id and name only.
type Summary struct {
	ItineraryID   string `json:"itineraryID"`
	ItineraryName string `json:"itineraryName"`
}

// LocationView is the location detail embedded in a filled slot.
type LocationView struct {
	LocationName   string  `json:"locationName"`
	LocationDesc   string  `json:"locationDesc"`
	LocationImage  string  `json:"locationImage"`
	TimeToComplete int     `json:"timeToComplete"`
	DistToPT       int     `json:"distToPT"`
	Category       string  `json:"category"`
	Rating         float64 `json:"rating"`
	Address        string  `json:"address"`
}

// SlotView is one filled cell of the grid.
type SlotView struct {
	SlotID      string       `json:"slotID"`
	ItineraryID string       `json:"itineraryID"`
	Location    LocationView `json:"location"`
	SlotDate    string       `json:"slotDate"`
	SlotTime    string       `json:"slotTime"`
}

// View is the full itinerary page payload. SlotData is sparse: only
// filled cells, ordered by (date, time). Dates and HourSlots carry the
// grid axes so the client can lay out the empty cells itself instead
// of receiving |dates|×24 placeholders.
type View struct {
	ItineraryID   string     `json:"itineraryID"`
	ItineraryName string     `json:"itineraryName"`
	StartDate     string     `json:"startDate"`
	EndDate       string     `json:"endDate"`
	Dates         []string   `json:"dates"`
	HourSlots     []string   `json:"hourSlots"`
	SlotData      []SlotView `json:"slotData"`
}

// SlotRequest is one placement the client wants saved.
type SlotRequest struct {
	SlotDate   string `json:"slotDate" validate:"required,datetime=2006-01-02"`
	SlotTime   string `json:"slotTime" validate:"required,hourslot"`
	LocationID string `json:"locationID" validate:"required"`
}

// SlotError is a per-item rejection inside an otherwise successful
// save.
type SlotError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SaveResult reports a save: everything persisted, everything
// rejected, and an aggregate flag. Partial failure is a result, not an
// error.
type SaveResult struct {
	Message     string                 `json:"message"`
	SlotData    []models.ItinerarySlot `json:"slotData"`
	SlotsFailed []SlotError            `json:"slotsFailed"`
	Error       bool                   `json:"error"`
}

// Browse lists every itinerary as id + name, for the sidebar.
func (s *Service) Browse(ctx context.Context) ([]Summary, error) {
	itineraries, err := s.store.Itineraries(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(itineraries))
	for _, it := range itineraries {
		summaries = append(summaries, Summary{
			ItineraryID:   it.ItineraryID,
			ItineraryName: it.ItineraryName,
		})
	}
	return summaries, nil
}

// Create inserts a new itinerary header under the next sequential id.
// Dates must be well-formed and end must not precede start; the HTTP
// layer validates the same things, this re-checks because parsing and
// persistence happen here.
func (s *Service) Create(ctx context.Context, name, startDate, endDate string) (*models.Itinerary, error) {
	start, err := dates.ParseLocal(startDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := dates.ParseLocal(endDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	id, err := s.store.NextItineraryID(ctx)
	if err != nil {
		return nil, err
	}
	it := &models.Itinerary{
		ItineraryID:   id,
		ItineraryName: name,
		StartDate:     dates.Noon(start),
		EndDate:       dates.Noon(end),
	}
	if err := s.store.InsertItinerary(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes an itinerary and cascades to its slots, returning the
// number of slots that went with it.
func (s *Service) Delete(ctx context.Context, itineraryID string) (int64, error) {
	if _, err := s.store.Itinerary(ctx, itineraryID); err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteSlotsByItinerary(ctx, itineraryID)
	if err != nil {
		return 0, err
	}
	if err := s.store.DeleteItinerary(ctx, itineraryID); err != nil {
		return removed, err
	}
	return removed, nil
}

// View assembles the itinerary page: header, grid axes, and the filled
// slots joined with their locations. A slot whose location has since
// vanished is logged and skipped rather than failing the whole view.
func (s *Service) View(ctx context.Context, itineraryID string) (*View, error) {
	it, err := s.store.Itinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	slots, err := s.store.SlotsByItinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	locations, err := s.store.LocationsByIDs(ctx, distinctCardIDs(slots))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		byID[loc.LocationID] = loc
	}

	slotData := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		loc, ok := byID[slot.CardID]
		if !ok {
			s.log.Warn("slot references missing location, skipping",
				zap.String("slotID", slot.SlotID),
				zap.String("cardID", slot.CardID))
			continue
		}
		slotData = append(slotData, SlotView{
			SlotID:      slot.SlotID,
			ItineraryID: it.ItineraryID,
			Location: LocationView{
				LocationName:   loc.LocationName,
				LocationDesc:   loc.LocationDescription,
				LocationImage:  loc.LocationImage,
				TimeToComplete: loc.TimeToComplete,
				DistToPT:       loc.DistanceToPT,
				Category:       loc.Category,
				Rating:         loc.StarRating,
				Address:        loc.Address,
			},
			SlotDate: dates.FormatYMD(slot.SlotDate),
			SlotTime: slot.SlotTime,
		})
	}

	gridDates := dates.Range(it.StartDate, it.EndDate)
	axis := make([]string, 0, len(gridDates))
	for _, d := range gridDates {
		axis = append(axis, dates.FormatYMD(d))
	}

	return &View{
		ItineraryID:   it.ItineraryID,
		ItineraryName: it.ItineraryName,
		StartDate:     dates.FormatHuman(it.StartDate),
		EndDate:       dates.FormatHuman(it.EndDate),
		Dates:         axis,
		HourSlots:     dates.HourSlots(),
		SlotData:      slotData,
	}, nil
}

// SaveSlots persists the requested placements. Ids are assigned
// sequentially in input order starting from the next free slot id; a
// rejected item does not consume an id, so accepted ids stay
// contiguous. Rejections (bad date, date outside the trip) are
// reported per item and never abort the accepted ones.
func (s *Service) SaveSlots(ctx context.Context, itineraryID string, requests []SlotRequest) (*SaveResult, error) {
	it, err := s.store.Itinerary(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	nextID, err := s.store.NextSlotID(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := strconv.Atoi(nextID)
	if err != nil {
		return nil, fmt.Errorf("bad slot id sequence %q: %w", nextID, err)
	}

	accepted := make([]models.ItinerarySlot, 0, len(requests))
	var failed []SlotError
	for _, req := range requests {
		slotDate, err := dates.ParseLocal(req.SlotDate)
		if err != nil {
			failed = append(failed, SlotError{
				Error:   true,
				Message: fmt.Sprintf("error in saving itinerary slot %s: %v", req.LocationID, err),
			})
			continue
		}
		if !dates.InRange(slotDate, it.StartDate, it.EndDate) {
			failed = append(failed, SlotError{
				Error: true,
				Message: fmt.Sprintf("error in saving itinerary slot %s: date %s outside itinerary range",
					req.LocationID, req.SlotDate),
			})
			continue
		}
		accepted = append(accepted, models.ItinerarySlot{
			SlotID:      ids.Format(seq),
			ItineraryID: it.ItineraryID,
			SlotDate:    dates.Noon(slotDate),
			SlotTime:    req.SlotTime,
			CardID:      req.LocationID,
		})
		seq++
	}

	if err := s.store.InsertSlots(ctx, accepted); err != nil {
		return nil, err
	}

	return &SaveResult{
		Message:     "Successfully added slots and saved itinerary",
		SlotData:    accepted,
		SlotsFailed: failed,
		Error:       len(failed) > 0,
	}, nil
}

// DeleteSlot removes a single placement by id.
func (s *Service) DeleteSlot(ctx context.Context, slotID string) error {
	return s.store.DeleteSlot(ctx, slotID)
}

// Copy clones a whole itinerary onto a new start date. The trip keeps
// its duration; every slot keeps its time-of-day and its day offset
// from the start of the trip, so day 2 at 14:00 stays day 2 at 14:00.
func (s *Service) Copy(ctx context.Context, sourceID, newName, newStartDate string) (string, error) {
	source, err := s.store.Itinerary(ctx, sourceID)
	if err != nil {
		return "", err
	}

	newStart, err := dates.ParseLocal(newStartDate)
	if err != nil {
		return "", ErrInvalidDate
	}

	duration := dates.DaysBetween(source.StartDate, source.EndDate)
	newEnd := dates.AddDays(newStart, duration)

	newID, err := s.store.NextItineraryID(ctx)
	if err != nil {
		return "", err
	}
	if err := s.store.InsertItinerary(ctx, &models.Itinerary{
		ItineraryID:   newID,
		ItineraryName: newName,
		StartDate:     dates.Noon(newStart),
		EndDate:       dates.Noon(newEnd),
	}); err != nil {
		return "", err
	}

	sourceSlots, err := s.store.SlotsByItinerary(ctx, sourceID)
	if err != nil {
		return "", err
	}
	if len(sourceSlots) == 0 {
		return newID, nil
	}

	nextSlotID, err := s.store.NextSlotID(ctx)
	if err != nil {
		return "", err
	}
	seq, err := strconv.Atoi(nextSlotID)
	if err != nil {
		return "", fmt.Errorf("bad slot id sequence %q: %w", nextSlotID, err)
	}

	remapped := make([]models.ItinerarySlot, 0, len(sourceSlots))
	for _, slot := range sourceSlots {
		remapped = append(remapped, models.ItinerarySlot{
			SlotID:      ids.Format(seq),
			ItineraryID: newID,
			SlotDate:    dates.Noon(dates.Offset(slot.SlotDate, source.StartDate, newStart)),
			SlotTime:    slot.SlotTime,
			CardID:      slot.CardID,
		})
		seq++
	}

	if err := s.store.InsertSlots(ctx, remapped); err != nil {
		return "", err
	}
	return newID, nil
}

func distinctCardIDs(slots []models.ItinerarySlot) []string {
	seen := make(map[string]bool, len(slots))
	var out []string
	for _, slot := range slots {
		if !seen[slot.CardID] {
			seen[slot.CardID] = true
			out = append(out, slot.CardID)
		}
	}
	return out
}
