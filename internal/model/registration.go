package model

import "math/big"

// Registration holds the fields submitted when registering a new parcel.
// The owner is the submitting account.
type Registration struct {
	Location     string
	Area         uint64
	SurveyNumber string
	Price        *big.Int
	DocumentHash string
	ImageHash    string
}
