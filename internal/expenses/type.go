package expenses

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Main is the top level of the expense taxonomy
type Main string

// Sub is the second level of the expense taxonomy
type Sub string

const (
	Maintenance Main = "Maintenance"
	Utilities   Main = "Utilities"
	Other       Main = "Other"
)

const (
	Repairs     Sub = "Repairs"
	Cleaning    Sub = "Cleaning"
	Landscaping Sub = "Landscaping"
	Water       Sub = "Water"
	Electricity Sub = "Electricity"
	Garbage     Sub = "Garbage"
	Gas         Sub = "Gas"
	SubOther    Sub = "Other"
)

// legacyGarbage is how older rows spelled the garbage utility.
const legacyGarbage = "Garbage/Recycle"

// Type is a two-level expense category. The top-level Other category has no
// sub-part.
type Type struct {
	Main Main `json:"main"`
	Sub  Sub  `json:"sub,omitempty"`
}

var (
	MaintenanceRepairs     = Type{Maintenance, Repairs}
	MaintenanceCleaning    = Type{Maintenance, Cleaning}
	MaintenanceLandscaping = Type{Maintenance, Landscaping}
	MaintenanceOther       = Type{Maintenance, SubOther}
	UtilitiesWater         = Type{Utilities, Water}
	UtilitiesElectricity   = Type{Utilities, Electricity}
	UtilitiesGarbage       = Type{Utilities, Garbage}
	UtilitiesGas           = Type{Utilities, Gas}
	UtilitiesOther         = Type{Utilities, SubOther}
	OtherType              = Type{Main: Other}
)

var maintenanceSubs = []Sub{Repairs, Cleaning, Landscaping, SubOther}
var utilitiesSubs = []Sub{Water, Electricity, Garbage, Gas, SubOther}

// AllTypes returns every member of the taxonomy
func AllTypes() []Type {
	types := make([]Type, 0, len(maintenanceSubs)+len(utilitiesSubs)+1)
	for _, s := range maintenanceSubs {
		types = append(types, Type{Maintenance, s})
	}
	for _, s := range utilitiesSubs {
		types = append(types, Type{Utilities, s})
	}
	return append(types, OtherType)
}

// String encodes the type as "Main: Sub", or "Other" for the uncategorized
// bucket. This is the storage format.
func (t Type) String() string {
	switch t.Main {
	case Maintenance, Utilities:
		return fmt.Sprintf("%s: %s", t.Main, t.Sub)
	default:
		return string(Other)
	}
}

// ParseType decodes a "Main: Sub" string. It never fails: an unknown main
// category decodes to Other, an unknown sub-category to the main category's
// Other.
func ParseType(s string) Type {
	mainPart, subPart, _ := strings.Cut(s, ":")
	mainPart = strings.TrimSpace(mainPart)
	subPart = strings.TrimSpace(subPart)

	switch Main(mainPart) {
	case Maintenance:
		return Type{Maintenance, matchSub(subPart, maintenanceSubs)}
	case Utilities:
		if subPart == legacyGarbage {
			return UtilitiesGarbage
		}
		return Type{Utilities, matchSub(subPart, utilitiesSubs)}
	default:
		return OtherType
	}
}

func matchSub(s string, allowed []Sub) Sub {
	for _, sub := range allowed {
		if string(sub) == s {
			return sub
		}
	}
	return SubOther
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// Value implements driver.Valuer
func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *Type) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = ParseType(v)
	case []byte:
		*t = ParseType(string(v))
	case nil:
		*t = OtherType
	default:
		return fmt.Errorf("cannot scan %T into expense type", src)
	}
	return nil
}
