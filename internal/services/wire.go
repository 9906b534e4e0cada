package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// textField decodes a JSON string, number or null into text.
//
// TheSportsDB is inconsistent about quoting numeric fields, so every field that
// may hold a number is read through this type. Any other value (bool, object,
// array) becomes empty text so one bad field never fails the whole payload.
type textField string

func (f *textField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = textField(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		log.Debug("ignoring malformed field", "value", string(data))
		*f = ""
		return nil
	}
	*f = textField(n.String())
	return nil
}

func (f textField) String() string {
	return string(f)
}

// Int returns the field as an integer, or nil when it is empty or not numeric.
func (f textField) Int() *int {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(v)
		return &n
	}
	return nil
}

type eventRecord struct {
	ID         textField `json:"idEvent" validate:"required"`
	Title      textField `json:"strEvent"`
	League     textField `json:"strLeague"`
	Date       textField `json:"dateEvent"`
	Time       textField `json:"strTime"`
	Status     textField `json:"strStatus"`
	HomeTeam   textField `json:"strHomeTeam"`
	AwayTeam   textField `json:"strAwayTeam"`
	HomeTeamID textField `json:"idHomeTeam"`
	AwayTeamID textField `json:"idAwayTeam"`
	HomeScore  textField `json:"intHomeScore"`
	AwayScore  textField `json:"intAwayScore"`
	Thumbnail  textField `json:"strThumb"`
	Venue      textField `json:"strVenue"`
	City       textField `json:"strCity"`
	Country    textField `json:"strCountry"`
	Season     textField `json:"strSeason"`
	Round      textField `json:"intRound"`
	Spectators textField `json:"intSpectators"`
}

type eventsResponse struct {
	Events []eventRecord `json:"events"`
}

type tableRecord struct {
	ID     textField `json:"idStanding"`
	TeamID textField `json:"idTeam"`
	Team   textField `json:"strTeam" validate:"required"`
	Badge  textField `json:"strBadge"`
	TBadge textField `json:"strTeamBadge"`
	League textField `json:"strLeague"`
	Season textField `json:"strSeason"`
	Form   textField `json:"strForm"`
	Played textField `json:"intPlayed"`
	Wins   textField `json:"intWin"`
	Losses textField `json:"intLoss"`
	Draws  textField `json:"intDraw"`
	Points textField `json:"intPoints"`
}

type tableResponse struct {
	Table []tableRecord `json:"table"`
}

type teamRecord struct {
	ID     textField `json:"idTeam"`
	Name   textField `json:"strTeam" validate:"required"`
	Badge  textField `json:"strBadge"`
	TBadge textField `json:"strTeamBadge"`
	League textField `json:"strLeague"`
}

type teamsResponse struct {
	Teams []teamRecord `json:"teams"`
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...textField) string {
	for _, v := range values {
		if v != "" {
			return v.String()
		}
	}
	return ""
}
