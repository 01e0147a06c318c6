package model

// Tally is the running vote count for one choice.
type Tally struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
