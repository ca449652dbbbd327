// Package suggestions turns a classification into rail route suggestions and
// compares a traveler's scores against reference values.
//
// The built-in reference (DefaultBaseline, source "midpoint") is the rating
// scale midpoint, not survey data. Survey averages are only used when they are
// supplied through configuration or the baseline table; their Source says so.
package suggestions

import "traveler-classifier/internal/classifier"

var routeTable = map[classifier.Construct][]string{
	classifier.Luxury: {
		"Venice Simplon-Orient-Express",
		"Glacier Express",
		"Golden Eagle Trans-Siberian",
		"Royal Scotsman",
	},
	classifier.Sustainability: {
		"Bernina Express",
		"West Highland Line",
		"Biosfera Train",
	},
	classifier.Rural: {
		"Danube Bike & Rail Path",
		"Ligurian Cycle-Rail Paths",
		"Loire à Vélo Rail",
	},
	classifier.Digital: {
		"Dutch & German Rail (Digital-First)",
		"Trenitalia Frecciarossa",
	},
	classifier.Health: {
		"Swiss/Austrian Wellness Trains",
		"German Quiet Zones",
		"Czech Spa Routes",
	},
}

// RoutesFor lists the routes of each relevant construct in the given order.
// Unknown constructs contribute nothing; a route is listed once.
func RoutesFor(relevant []classifier.Construct) []string {
	routes := []string{}
	seen := make(map[string]bool)
	for _, c := range relevant {
		for _, r := range routeTable[c] {
			if seen[r] {
				continue
			}
			seen[r] = true
			routes = append(routes, r)
		}
	}
	return routes
}

// ParseConstructs converts wire names to constructs, rejecting unknown names.
func ParseConstructs(names []string) ([]classifier.Construct, error) {
	out := make([]classifier.Construct, 0, len(names))
	for _, n := range names {
		c, ok := constructByName(n)
		if !ok {
			return nil, &UnknownConstructError{Name: n}
		}
		out = append(out, c)
	}
	return out, nil
}

type UnknownConstructError struct {
	Name string
}

func (e *UnknownConstructError) Error() string {
	return "unknown construct " + e.Name
}
