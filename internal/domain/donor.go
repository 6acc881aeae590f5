package domain

import (
	"strings"
	"time"
)

type Donor struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Age        *float64 `json:"age"`
	Gender     string   `json:"gender"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	Weight     *float64 `json:"weight"`
	Hemoglobin *float64 `json:"hemoglobin"`
	BloodGroup string   `json:"blood_group"`
	Email      *string  `json:"-"`
}

// DonorTable is one normalized snapshot of the backing spreadsheet.
// Donor IDs are row positions within this snapshot only.
type DonorTable struct {
	Donors   []Donor
	HasEmail bool
	Columns  []string
	LoadedAt time.Time
}

func (t *DonorTable) ByBloodGroup(group string) []Donor {
	matches := make([]Donor, 0)
	for _, d := range t.Donors {
		if d.BloodGroup == group {
			matches = append(matches, d)
		}
	}
	return matches
}

// Emails resolves ids to unique, non-blank addresses in table order.
func (t *DonorTable) Emails(ids []int) []string {
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	emails := make([]string, 0)
	for _, d := range t.Donors {
		if _, ok := wanted[d.ID]; !ok || d.Email == nil {
			continue
		}
		addr := strings.TrimSpace(*d.Email)
		if addr == "" {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		emails = append(emails, addr)
	}
	return emails
}

type QueryResult struct {
	BloodGroup string
	Count      int
	Records    []Donor
	HasEmail   bool
}

type RegisterDonorInput struct {
	Name       string `form:"name"`
	Age        string `form:"age"`
	Gender     string `form:"gender"`
	Phone      string `form:"phone"`
	Email      string `form:"email"`
	BloodGroup string `form:"blood_group"`
	Area       string `form:"area"`
	Weight     string `form:"weight"`
	Hemoglobin string `form:"hemoglobin"`
}

// RegistrationRow is a validated registration ready to be written.
type RegistrationRow struct {
	Name       string
	Age        int
	Gender     string
	Phone      string
	Email      string
	BloodGroup string
	Area       string
	Weight     float64
	Hemoglobin float64
}

type Registration struct {
	Sno        int    `json:"sno"`
	BloodGroup string `json:"blood_group"`
}

// NormalizeBloodGroup uppercases the group and strips every space.
func NormalizeBloodGroup(group string) string {
	return strings.ReplaceAll(strings.ToUpper(group), " ", "")
}
