// internal/classifier/personas.go
package classifier

type Persona struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
	Constructs  []Construct `json:"constructs"`
}

// IsHybrid reports whether the persona was awarded for a construct pair.
func (p Persona) IsHybrid() bool {
	return len(p.Constructs) == 2
}

func (p Persona) clone() Persona {
	cs := make([]Construct, len(p.Constructs))
	copy(cs, p.Constructs)
	p.Constructs = cs
	return p
}

// pairKey is an unordered construct pair, normalized so that a <= b.
type pairKey struct {
	a, b Construct
}

func newPairKey(x, y Construct) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

var basePersonas = map[Construct]Persona{
	Digital: {
		Key:         "always-connected",
		Name:        "Always-Connected Traveler",
		Icon:        "🧠",
		Description: "Values digital tools, apps, and seamless connectivity.",
		Constructs:  []Construct{Digital},
	},
	Health: {
		Key:         "health-aware",
		Name:        "Health-Aware Passenger",
		Icon:        "🧘",
		Description: "Cares about cleanliness, safety, and peace of mind.",
		Constructs:  []Construct{Health},
	},
	Sustainability: {
		Key:         "value-aligned-eco",
		Name:        "Value-Aligned Eco Traveler",
		Icon:        "🌿",
		Description: "Prioritizes low carbon, green trains, and eco credentials.",
		Constructs:  []Construct{Sustainability},
	},
	Rural: {
		Key:         "multimodal-nomad",
		Name:        "Multimodal Nomad",
		Icon:        "🚴",
		Description: "Loves slow travel, remote areas, and multi-modal freedom.",
		Constructs:  []Construct{Rural},
	},
	Luxury: {
		Key:         "mindful-luxury",
		Name:        "Mindful Luxury Traveler",
		Icon:        "💼",
		Description: "Enjoys exclusive, quiet, and premium onboard experiences.",
		Constructs:  []Construct{Luxury},
	},
}

var hybridPersonas = map[pairKey]Persona{
	newPairKey(Sustainability, Rural): {
		Key:         "eco-explorer",
		Name:        "Eco-Explorer",
		Icon:        "🌿🚴",
		Description: "Immersive travel in nature and rural areas with cultural depth.",
		Constructs:  []Construct{Sustainability, Rural},
	},
	newPairKey(Health, Digital): {
		Key:         "health-connected-explorer",
		Name:        "Health-Connected Explorer",
		Icon:        "🧘🧠",
		Description: "Seeks wellness and cleanliness through smart, digital systems.",
		Constructs:  []Construct{Health, Digital},
	},
	newPairKey(Luxury, Digital): {
		Key:         "tech-savvy-luxury",
		Name:        "Tech-Savvy Luxury Traveler",
		Icon:        "💼🧠",
		Description: "Loves luxury, speed, and digital convenience.",
		Constructs:  []Construct{Luxury, Digital},
	},
	newPairKey(Luxury, Sustainability): {
		Key:         "eco-lux",
		Name:        "Eco-Lux Traveler",
		Icon:        "💼🌿",
		Description: "Combines high-end comfort with eco-conscious values.",
		Constructs:  []Construct{Luxury, Sustainability},
	},
	newPairKey(Health, Rural): {
		Key:         "active-wellness-nomad",
		Name:        "Active Wellness Nomad",
		Icon:        "🧘🚴",
		Description: "Prefers space, nature, biking, and clean journeys.",
		Constructs:  []Construct{Health, Rural},
	},
}

// Personas lists all ten personas: base personas in canonical construct
// order, then hybrids ordered by key.
func Personas() []Persona {
	out := make([]Persona, 0, len(basePersonas)+len(hybridPersonas))
	for _, c := range canonicalConstructs {
		out = append(out, basePersonas[c].clone())
	}
	for _, key := range hybridOrder {
		out = append(out, hybridPersonas[key].clone())
	}
	return out
}

var hybridOrder = []pairKey{
	newPairKey(Sustainability, Rural),
	newPairKey(Health, Digital),
	newPairKey(Luxury, Digital),
	newPairKey(Luxury, Sustainability),
	newPairKey(Health, Rural),
}

// PersonaByKey finds a persona from either catalog.
func PersonaByKey(key string) (Persona, bool) {
	for _, p := range basePersonas {
		if p.Key == key {
			return p.clone(), true
		}
	}
	for _, p := range hybridPersonas {
		if p.Key == key {
			return p.clone(), true
		}
	}
	return Persona{}, false
}
