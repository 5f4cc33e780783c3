package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CurrentStats is the latest reading from the bin.
type CurrentStats struct {
	FillLevel   float64     `json:"fill_level"`
	Temperature float64     `json:"temperature,omitempty"`
	Composition Composition `json:"current"`
}

// Composition is the waste mix in percent.
type Composition struct {
	Recyclable    float64 `json:"recyclable"`
	Organic       float64 `json:"organic"`
	NonRecyclable float64 `json:"nonRecyclable"`
}

// EfficiencyScore is the rounded mean of the recyclable and organic shares.
func (c Composition) EfficiencyScore() int {
	return int(math.Round((c.Recyclable + c.Organic) / 2))
}

// HistoricalStats holds archived accumulation periods and their averages.
type HistoricalStats struct {
	History  []HistoryRecord `json:"history"`
	Averages Averages        `json:"averages"`
}

// HistoryRecord is one archived accumulation period, newest first.
type HistoryRecord struct {
	Timestamp      string  `json:"timestamp"`
	Recyclable     float64 `json:"recyclable"`
	Organic        float64 `json:"organic"`
	NonRecyclable  float64 `json:"nonRecyclable"`
	Efficiency     float64 `json:"efficiency"`
	MaxTemperature float64 `json:"maxTemperature"`
	FillDuration   float64 `json:"fillDuration"` // hours
}

// Averages are the means over every archived period.
type Averages struct {
	Recyclable     float64 `json:"recyclable"`
	Organic        float64 `json:"organic"`
	NonRecyclable  float64 `json:"nonRecyclable"`
	Efficiency     float64 `json:"efficiency"`
	MaxTemperature float64 `json:"maxTemperature"`
	FillDuration   float64 `json:"fillDuration"`
}

// AlertID identifies an alert across polls. The backend sends integers;
// string ids are accepted as well.
type AlertID string

// UnmarshalJSON accepts a JSON number or string.
func (id *AlertID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AlertID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("alert id must be a number or string: %w", err)
	}
	*id = AlertID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so they round-trip.
func (id AlertID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id AlertID) String() string { return string(id) }

// Alert is an active alert raised by the backend.
type Alert struct {
	ID        AlertID `json:"id"`
	Message   string  `json:"message"`
	Location  string  `json:"location"`
	Timestamp string  `json:"timestamp"`
	IsRead    bool    `json:"isRead,omitempty"`
}

// Threshold ranges enforced by the input controls.
const (
	CapacityMin    = 50
	CapacityMax    = 95
	TemperatureMin = 68.0
	TemperatureMax = 120.0
)

// Settings are the bin's notification and alert threshold settings.
type Settings struct {
	Notifications Notifications `json:"notifications"`
	Thresholds    Thresholds    `json:"thresholds"`
}

// Notifications selects which channels receive alerts.
type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// Thresholds trigger alerts when exceeded.
type Thresholds struct {
	Capacity    int     `json:"capacity" validate:"min=50,max=95"`     // percent
	Temperature float64 `json:"temperature" validate:"min=68,max=120"` // °F
}

// Ack is the acknowledgement body of mutating endpoints.
type Ack struct {
	Message string `json:"message"`
}

// SaveResult is the response to a settings save. Settings is set only
// when the backend echoes the stored settings back.
type SaveResult struct {
	Message  string    `json:"message"`
	Settings *Settings `json:"settings,omitempty"`
}
