package models

import "time"

// Vouch is a buyer review of a seller. Numbers are dense per seller and start at 1.
type Vouch struct {
	VouchNumber int       `json:"vouch_number"`
	VouchedByID string    `json:"vouched_by_id"`
	Product     string    `json:"product"`
	Value       float64   `json:"value"`
	Review      string    `json:"review"`
	Rating      int       `json:"rating"`
	Timestamp   time.Time `json:"timestamp"`

	// SellerID is filled in when vouches are flattened across sellers; it is not persisted.
	SellerID string `json:"-"`
}

// SellerVouches holds every vouch a seller received plus running totals.
type SellerVouches struct {
	Count     int     `json:"count"`
	SumRating int     `json:"sum_rating"`
	Vouches   []Vouch `json:"vouches"`
}

// VouchesPartition is keyed by seller user ID.
type VouchesPartition map[string]*SellerVouches
