package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultLostCategory is applied to lost items posted without a category
const DefaultLostCategory = "electronics"

// ContactInfo is how the person who posted a listing can be reached
type ContactInfo struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Coordinates is a point on the map
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FoundItem is a listing for something that was found ("topilgan")
type FoundItem struct {
	ID          ID          `json:"_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Img         string      `json:"img"`
	Location    string      `json:"location"`
	Country     string      `json:"country"`
	Viloyat     string      `json:"viloyat"`
	Date        string      `json:"date"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Coordinates Coordinates `json:"coordinates"`
}

func (f FoundItem) ItemID() ID           { return f.ID }
func (f FoundItem) Heading() string      { return f.Title }
func (f FoundItem) Contact() ContactInfo { return f.ContactInfo }
func (f FoundItem) Point() Coordinates   { return f.Coordinates }

// Validate checks the fields the form marks as required
func (f FoundItem) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// WithDefaults fills in the submission date
func (f FoundItem) WithDefaults(now time.Time) FoundItem {
	f.Date = normalizeDate(f.Date, now)
	return f
}

// LostItem is a listing for something that was lost ("yoqotilgan")
type LostItem struct {
	ID                ID          `json:"_id,omitempty"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Images            []string    `json:"images"`
	LastKnownLocation string      `json:"lastKnownLocation"`
	Country           string      `json:"country"`
	Viloyat           string      `json:"viloyat"`
	Date              string      `json:"date"`
	Coordinates       Coordinates `json:"coordinates"`
	ContactInfo       ContactInfo `json:"contactInfo"`
	Category          string      `json:"category"`
}

func (l LostItem) ItemID() ID           { return l.ID }
func (l LostItem) Heading() string      { return l.Title }
func (l LostItem) Contact() ContactInfo { return l.ContactInfo }
func (l LostItem) Point() Coordinates   { return l.Coordinates }

// Validate requires both title and description
func (l LostItem) Validate() error {
	if strings.TrimSpace(l.Title) == "" || strings.TrimSpace(l.Description) == "" {
		return errors.New("title and description are required")
	}
	return nil
}

// WithDefaults fills in date, category and trims image urls
func (l LostItem) WithDefaults(now time.Time) LostItem {
	l.Date = normalizeDate(l.Date, now)
	if l.Category == "" {
		l.Category = DefaultLostCategory
	}
	images := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	l.Images = images
	return l
}

// normalizeDate turns a form date (YYYY-MM-DD or RFC3339) into RFC3339,
// defaulting to now when empty or unparsable.
func normalizeDate(date string, now time.Time) string {
	date = strings.TrimSpace(date)
	if date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
		if t, err := time.Parse("2006-01-02", date); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return now.UTC().Format(time.RFC3339)
}

// MapZoom is the zoom level listing detail maps open at
const MapZoom = 16

// MapView is what the map widget needs to place a listing marker
type MapView struct {
	Center   [2]float64 `json:"center"`
	Zoom     int        `json:"zoom"`
	Controls []string   `json:"controls"`
	Hint     string     `json:"hint"`
}

// NewMapView centers the map on c with the marker labelled by title
func NewMapView(c Coordinates, title string) MapView {
	return MapView{
		Center:   [2]float64{c.Lat, c.Lng},
		Zoom:     MapZoom,
		Controls: []string{"zoomControl", "fullscreenControl", "routeButtonControl"},
		Hint:     title,
	}
}
