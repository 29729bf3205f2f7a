package enums

import "fmt"

// Section is the merchandising group a product is listed under.
type Section string

const (
	SectionPopular     Section = "Popular Items"
	SectionNewArrivals Section = "New Arrivals"
	SectionBestDeals   Section = "Best Deals"
)

// Sections lists the sections in home page order.
var Sections = []Section{
	SectionPopular,
	SectionNewArrivals,
	SectionBestDeals,
}

var sectionByFilter = map[string]Section{
	"popular": SectionPopular,
	"new":     SectionNewArrivals,
	"deals":   SectionBestDeals,
}

// String implements fmt.Stringer.
func (s Section) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Section.
func (s Section) IsValid() bool {
	for _, candidate := range Sections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSection converts raw input into a Section.
func ParseSection(value string) (Section, error) {
	for _, candidate := range Sections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid section %q", value)
}

// SectionForFilter maps a collection filter slug (popular, new, deals) to its section.
func SectionForFilter(filter string) (Section, bool) {
	section, ok := sectionByFilter[filter]
	return section, ok
}
