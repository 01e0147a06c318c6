package model

// Quote is an overheard quotation with its voting metadata.
//
// Created is the number of days since 2008-10-01. CreationOrder is unique and sorts by creation time.
// Rank sorts quotes by score and is recomputed on every vote.
type Quote struct {
	ID            int64  `json:"id"`
	Quote         string `json:"quote"`
	URI           string `json:"uri,omitempty"`
	Rank          string `json:"rank"`
	Created       int    `json:"created"`
	CreationOrder string `json:"creation_order"`
	VoteSum       int    `json:"votesum"`
	Creator       string `json:"creator"`
}

// Voter tracks a user's participation.
type Voter struct {
	Email         string `json:"email"`
	Count         int    `json:"count"`
	HasVoted      bool   `json:"has_voted"`
	HasAddedQuote bool   `json:"has_added_quote"`
}
