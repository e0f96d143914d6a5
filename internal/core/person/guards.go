// Package person contains the pure rules for ambassador records.
package person

import (
	"fmt"
	"strings"
	"time"
)

// Sector values accepted by the ledger.
const (
	SectorIndustry = "chamber_of_industry"
	SectorTrade    = "chamber_of_trade"
	SectorOther    = "other"
)

// Sectors lists every sector in display order.
var Sectors = []string{SectorIndustry, SectorTrade, SectorOther}

// Genders lists the accepted gender codes.
var Genders = []string{"m", "w", "d"}

// DateLayout is the storage and input format of calendar dates.
const DateLayout = "2006-01-02"

// ValidSector reports whether s names a known sector.
func ValidSector(s string) bool {
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// ValidGender reports whether s is empty or a known gender code.
func ValidGender(s string) bool {
	if s == "" {
		return true
	}
	for _, known := range Genders {
		if s == known {
			return true
		}
	}
	return false
}

// ValidDate reports whether s is empty or a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// NormalizeSector maps loose spellings found in spreadsheets onto a sector value.
// Unknown input is returned lower-cased so validation can reject it.
func NormalizeSector(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "ihk", "industry", "chamber_of_industry":
		return SectorIndustry
	case "hwk", "trade", "chamber_of_trade":
		return SectorTrade
	case "sonstige", "other":
		return SectorOther
	}
	return v
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// RegisterContext carries the uniqueness facts needed to save a person.
type RegisterContext struct {
	FirstName      string
	LastName       string
	BirthDate      string
	ReferenceCode  string
	IdentityTaken  bool
	ReferenceTaken bool
}

// CanSavePerson rejects a person that would duplicate another's identity or
// reference code.
func CanSavePerson(ctx RegisterContext) GuardResult {
	if ctx.IdentityTaken {
		born := ctx.BirthDate
		if born == "" {
			born = "unknown"
		}
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s %s (born %s) is already registered", ctx.FirstName, ctx.LastName, born),
		}
	}
	if ctx.ReferenceTaken {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("reference code %s is already in use", ctx.ReferenceCode),
		}
	}
	return GuardResult{Allowed: true}
}
