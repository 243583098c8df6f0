// pkg/traffic/stats.go

package traffic

import (
	"sort"
	"strings"
)

// IPDetail accumulates what one remote address touched.
type IPDetail struct {
	Country   string
	Ports     map[string]struct{}
	Endpoints map[string]struct{}
}

// Stats aggregates parsed events for the report.
type Stats struct {
	IPs              map[string]int
	Countries        map[string]int
	ErrorTypes       map[string]int
	SuspiciousByIP   map[string][]Event
	IPDetails        map[string]*IPDetail
	TotalConnections int
	UnknownHosts     int
	ConnectionErrors int

	geo GeoResolver
}

// NewStats builds an empty aggregator. geo resolves IPs to countries and
// may be nil, in which case every country is "Unknown".
func NewStats(geo GeoResolver) *Stats {
	return &Stats{
		IPs:            make(map[string]int),
		Countries:      make(map[string]int),
		ErrorTypes:     make(map[string]int),
		SuspiciousByIP: make(map[string][]Event),
		IPDetails:      make(map[string]*IPDetail),
		geo:            geo,
	}
}

// Add folds one event into the aggregate.
func (s *Stats) Add(ev Event) {
	s.TotalConnections++
	s.IPs[ev.IP]++

	detail, seen := s.IPDetails[ev.IP]
	if !seen {
		country := "Unknown"
		if s.geo != nil {
			country = s.geo.Country(ev.IP)
		}
		detail = &IPDetail{
			Country:   country,
			Ports:     make(map[string]struct{}),
			Endpoints: make(map[string]struct{}),
		}
		s.IPDetails[ev.IP] = detail
		s.Countries[country]++
	}
	detail.Ports[ev.LocalPort] = struct{}{}
	detail.Endpoints[ev.Endpoint()] = struct{}{}

	if ev.ErrorType != "Unknown" {
		s.ErrorTypes[ev.ErrorType]++
	}
	switch {
	case ev.ErrorType == "Host Rejected":
		s.UnknownHosts++
	case strings.Contains(ev.ErrorType, "Connection") || strings.Contains(ev.ErrorType, "Error"):
		s.ConnectionErrors++
	}

	if ev.Suspicious {
		s.SuspiciousByIP[ev.IP] = append(s.SuspiciousByIP[ev.IP], ev)
	}
}

// counted pairs a key with its count for sorted output.
type counted struct {
	Key   string
	Count int
}

// topN returns the n highest-count entries, ties broken by key so output
// is stable.
func topN(m map[string]int, n int) []counted {
	out := make([]counted, 0, len(m))
	for k, v := range m {
		out = append(out, counted{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
