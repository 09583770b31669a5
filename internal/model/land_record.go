package model

import (
	"encoding/json"
	"math/big"
)

// LandRecord is the canonical shape of a land parcel read from the registry.
type LandRecord struct {
	ID           uint64
	Location     string
	Area         uint64
	SurveyNumber string
	Owner        string
	Price        *big.Int
	IsVerified   bool
	DocumentHash string
	ImageHash    string
}

type landRecordJSON struct {
	ID           uint64 `json:"id"`
	Location     string `json:"location"`
	Area         uint64 `json:"area"`
	SurveyNumber string `json:"surveyNumber"`
	Owner        string `json:"owner"`
	Price        string `json:"price"`
	IsVerified   bool   `json:"isVerified"`
	DocumentHash string `json:"documentHash"`
	ImageHash    string `json:"imageHash"`
}

// HasDocument reports whether a document reference was provided.
func (r LandRecord) HasDocument() bool {
	return r.DocumentHash != ""
}

// HasImage reports whether an image reference was provided.
func (r LandRecord) HasImage() bool {
	return r.ImageHash != ""
}

// MarshalJSON encodes price as a base-unit decimal string.
func (r LandRecord) MarshalJSON() ([]byte, error) {
	price := "0"
	if r.Price != nil {
		price = r.Price.String()
	}
	return json.Marshal(landRecordJSON{
		ID:           r.ID,
		Location:     r.Location,
		Area:         r.Area,
		SurveyNumber: r.SurveyNumber,
		Owner:        r.Owner,
		Price:        price,
		IsVerified:   r.IsVerified,
		DocumentHash: r.DocumentHash,
		ImageHash:    r.ImageHash,
	})
}
