// internal/classifier/tables.go
package classifier

type Construct string

const (
	Digital        Construct = "Digital"
	Health         Construct = "Health"
	Luxury         Construct = "Luxury"
	Rural          Construct = "Rural"
	Sustainability Construct = "Sustainability"
)

// canonicalConstructs is also the secondary sort order used when scores tie.
var canonicalConstructs = [...]Construct{Digital, Health, Luxury, Rural, Sustainability}

// Constructs returns the five constructs in canonical (alphabetical) order.
func Constructs() []Construct {
	out := make([]Construct, len(canonicalConstructs))
	copy(out, canonicalConstructs[:])
	return out
}

func IsConstruct(c Construct) bool {
	for _, known := range canonicalConstructs {
		if c == known {
			return true
		}
	}
	return false
}

type IndicatorID string

type Indicator struct {
	ID        IndicatorID `json:"id"`
	Label     string      `json:"label"`
	Weight    float64     `json:"weight"`
	Construct Construct   `json:"construct"`
}

// Questionnaire order. Weights come from the survey's measurement model.
var indicatorTable = [...]Indicator{
	{"DT1", "High-speed Wi-Fi on trains", 0.223197, Digital},
	{"DT2", "Ease of online booking", 0.178092, Digital},
	{"DT3", "Real-time info on mobile apps", 0.171690, Digital},
	{"DT4", "Personalized digital services", 0.214467, Digital},
	{"HS1", "Cleanliness and hygiene", 0.247296, Health},
	{"HS2", "Spacious seating", 0.263718, Health},
	{"HS3", "Health and safety tech", 0.268548, Health},
	{"HS4", "Reduced passenger interaction", 0.189980, Health},
	{"SU1", "Environmental sustainability", 0.186825, Sustainability},
	{"SU2", "Use of green technologies", 0.221840, Sustainability},
	{"SU3", "Sustainable practices commitment", 0.223485, Sustainability},
	{"SU4", "Renewable energy use", 0.222075, Sustainability},
	{"RA1", "Access to rural areas", 0.140420, Rural},
	{"RA2", "Scenic routes", 0.206108, Rural},
	{"RA3", "Cultural/historical sites", 0.195398, Rural},
	{"RA4", "Immersive rural experiences", 0.200396, Rural},
	{"RA5", "Bicycle boarding option", 0.055454, Rural},
	{"LX1", "Luxury and comfort", 0.249352, Luxury},
	{"LX2", "Private/personalized services", 0.224360, Luxury},
	{"LX3", "Luxury amenities", 0.233732, Luxury},
	{"LX4", "Entertainment and programming", 0.213852, Luxury},
}

var indicatorIndex = func() map[IndicatorID]int {
	idx := make(map[IndicatorID]int, len(indicatorTable))
	for i, ind := range indicatorTable {
		idx[ind.ID] = i
	}
	return idx
}()

// Indicators returns a copy of the indicator table in questionnaire order.
func Indicators() []Indicator {
	out := make([]Indicator, len(indicatorTable))
	copy(out, indicatorTable[:])
	return out
}

func LookupIndicator(id IndicatorID) (Indicator, bool) {
	i, ok := indicatorIndex[id]
	if !ok {
		return Indicator{}, false
	}
	return indicatorTable[i], true
}

// IndicatorsOf returns the indicators owned by c, in questionnaire order.
func IndicatorsOf(c Construct) []Indicator {
	var out []Indicator
	for _, ind := range indicatorTable {
		if ind.Construct == c {
			out = append(out, ind)
		}
	}
	return out
}

// WeightSum is the sum of the weights of c's indicators.
func WeightSum(c Construct) float64 {
	sum := 0.0
	for _, ind := range indicatorTable {
		if ind.Construct == c {
			sum += ind.Weight
		}
	}
	return sum
}
