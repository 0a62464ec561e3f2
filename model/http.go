package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type CreateTrackResponse struct {
	Id string `json:"id"`
}

type ClickRequestBody struct {
	Voice Voice `json:"voice"`
	Index int   `json:"index"`
}

type SelectionRequestBody struct {
	Index *int `json:"index"`
}

type ClassifiedNote struct {
	Note
	Degree   string `json:"degree,omitempty"`
	Diatonic bool   `json:"diatonic"`
	Color    string `json:"color"`
}

type NotesResponse struct {
	Voices        map[Voice][]ClassifiedNote `json:"voices"`
	MinMidiNumber int                        `json:"minMidiNumber"`
	MaxMidiNumber int                        `json:"maxMidiNumber"`
}

type PlayingResponse struct {
	PositionMs   float64 `json:"positionMs"`
	Notes        []Note  `json:"notes"`
	Chord        string  `json:"chord"`
	PitchClasses []int   `json:"pitchClasses"`
}
