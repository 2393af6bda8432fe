package domain

import "fmt"

// BirthDate is a year-month-day triple. It is not calendar-validated.
type BirthDate struct {
	Year  int `json:"year" firestore:"year"`
	Month int `json:"month" firestore:"month"`
	Day   int `json:"day" firestore:"day"`
}

func (d BirthDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d BirthDate) IsZero() bool {
	return d == BirthDate{}
}

// BirthData is what forecast and compatibility calculations need about a person.
type BirthData struct {
	Name      string    `json:"name,omitempty"`
	Date      BirthDate `json:"date"`
	Time      string    `json:"time,omitempty"` // HH:MM, optional
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
}
