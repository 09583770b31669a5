package record

import (
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"landScope/internal/model"
)

func TestNormalizePositional(t *testing.T) {
	owner := common.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	price, _ := new(big.Int).SetString("2500000000000000000", 10)

	got, err := Normalize(Positional(
		big.NewInt(1),
		"Mumbai, Maharashtra",
		big.NewInt(1200),
		"SUR-123/45",
		owner,
		price,
		true,
		"QmDoc",
		"QmImage",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.LandRecord{
		ID:           1,
		Location:     "Mumbai, Maharashtra",
		Area:         1200,
		SurveyNumber: "SUR-123/45",
		Owner:        owner.Hex(),
		Price:        price,
		IsVerified:   true,
		DocumentHash: "QmDoc",
		ImageHash:    "QmImage",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record mismatch: %+v != %+v", got, want)
	}
}

func TestNormalizePositionalDoesNotAliasPrice(t *testing.T) {
	price := big.NewInt(10)
	got, err := Normalize(Positional(uint64(1), "a", uint64(1), "s", "0x1", price, false, nil, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	price.SetInt64(99)
	if got.Price.Int64() != 10 {
		t.Fatalf("normalized price should not alias the raw value")
	}
}

func TestNormalizeNamedDefaultsHashes(t *testing.T) {
	got, err := Normalize(Named(map[string]interface{}{
		"id":           json.Number("4"),
		"location":     "Chennai, Tamil Nadu",
		"area":         json.Number("3200"),
		"surveyNumber": "SUR-101/11",
		"owner":        "0x2546BcD3c84621e976D8185a91A922aE77ECEc30",
		"price":        "3500000000000000000",
		"isVerified":   false,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != 4 || got.Area != 3200 {
		t.Fatalf("numeric fields mismatch: %+v", got)
	}
	if got.Price.String() != "3500000000000000000" {
		t.Fatalf("price mismatch: %s", got.Price)
	}
	if got.DocumentHash != "" || got.ImageHash != "" {
		t.Fatalf("missing hashes should default to empty: %+v", got)
	}
}

func TestNormalizeShortPositionalFallsBackToNamed(t *testing.T) {
	raw := Raw{
		Positional: []interface{}{uint64(1), "only", "three"},
		Named: map[string]interface{}{
			"id":           uint64(9),
			"location":     "Pune",
			"area":         uint64(10),
			"surveyNumber": "S-1",
			"owner":        "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			"price":        big.NewInt(1),
			"isVerified":   true,
		},
	}

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("expected named fields to be used, got %+v", got)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]Raw{
		"short tuple":    Positional(uint64(1), "Pune"),
		"missing owner":  Named(map[string]interface{}{"id": 1, "location": "x", "area": 1, "surveyNumber": "s", "price": "1", "isVerified": true}),
		"negative area":  Positional(uint64(1), "x", -5, "s", "0x1", "1", true, "", ""),
		"bad price":      Positional(uint64(1), "x", uint64(1), "s", "0x1", "1.5", true, "", ""),
		"wrong location": Positional(uint64(1), 42, uint64(1), "s", "0x1", "1", true, "", ""),
		"empty":          {},
	}

	for name, raw := range cases {
		if _, err := Normalize(raw); !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("%s: expected ErrMalformedRecord, got %v", name, err)
		}
	}
}

func TestNormalizeAllSkipsMalformed(t *testing.T) {
	raws := []Raw{
		Positional(uint64(1), "A", uint64(1), "s1", "0x1", "1", true, "", ""),
		Positional(uint64(2), "B"),
		Positional(uint64(3), "C", uint64(3), "s3", "0x3", "3", false, "doc", ""),
	}

	records, rejected := NormalizeAll(raws)
	if len(records) != 2 || records[0].ID != 1 || records[1].ID != 3 {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(rejected) != 1 || rejected[0].Index != 1 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}
	if !strings.Contains(rejected[0].Err.Error(), "malformed record") {
		t.Fatalf("unexpected rejection error: %v", rejected[0].Err)
	}
}
