package referenceframe

import (
	"strings"

	"github.com/pkg/errors"
)

// Manufacturer identifies a robot vendor. It selects the controller dialect and the angle
// convention of the vendor's arms.
type Manufacturer int

// Known manufacturers. All is used by commands that emit the same code for every vendor.
const (
	ABB Manufacturer = iota
	KUKA
	UR
	Staubli
	FrankaEmika
	Doosan
	Fanuc
	Igus
	Other
	All
)

var manufacturerNames = map[Manufacturer]string{
	ABB:         "ABB",
	KUKA:        "KUKA",
	UR:          "UR",
	Staubli:     "Staubli",
	FrankaEmika: "FrankaEmika",
	Doosan:      "Doosan",
	Fanuc:       "Fanuc",
	Igus:        "Igus",
	Other:       "Other",
	All:         "All",
}

func (m Manufacturer) String() string {
	if name, ok := manufacturerNames[m]; ok {
		return name
	}
	return "Unknown"
}

// ParseManufacturer returns the manufacturer with the given case-insensitive name.
func ParseManufacturer(name string) (Manufacturer, error) {
	for m, n := range manufacturerNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return Other, errors.Wrapf(ErrUnknownManufacturer, "%q", name)
}
