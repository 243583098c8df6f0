// pkg/traffic/report.go

package traffic

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

const reportRule = "================================================================================"
const sectionRule = "--------------------------------------------------------------------------------"

// maxSampleEvents caps how many suspicious events are shown per IP.
const maxSampleEvents = 5

// WriteReport renders the human-readable analysis report.
func WriteReport(w io.Writer, stats *Stats, now time.Time) {
	fmt.Fprintf(w, "\n%s\n", reportRule)
	fmt.Fprintf(w, "WEB TRAFFIC ANALYSIS REPORT - %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s\n\n", reportRule)

	if stats.TotalConnections == 0 {
		fmt.Fprintln(w, "No connection attempts found to analyze.")
		return
	}

	fmt.Fprintf(w, "Total connection attempts analyzed: %d\n", stats.TotalConnections)
	fmt.Fprintf(w, "Rejected unknown hosts: %d\n", stats.UnknownHosts)
	fmt.Fprintf(w, "Connection errors/timeouts: %d\n\n", stats.ConnectionErrors)

	writeSuspicious(w, stats)
	writeTopIPs(w, stats)
	writeTopCountries(w, stats)
	writeErrorTypes(w, stats)

	fmt.Fprintf(w, "\n%s\nEND OF REPORT\n%s\n\n", reportRule, reportRule)
}

func writeSuspicious(w io.Writer, stats *Stats) {
	if len(stats.SuspiciousByIP) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSUSPICIOUS ACTIVITY DETECTED:\n%s\n", sectionRule)

	ips := make([]string, 0, len(stats.SuspiciousByIP))
	for ip := range stats.SuspiciousByIP {
		ips = append(ips, ip)
	}
	sort.Strings(ips)

	for _, ip := range ips {
		events := stats.SuspiciousByIP[ip]
		fmt.Fprintf(w, "\nIP: %s (%s)\n", ip, stats.IPDetails[ip].Country)
		fmt.Fprintf(w, "Total suspicious events: %d\n", len(events))
		fmt.Fprintln(w, "Sample events:")
		for i, ev := range events {
			if i >= maxSampleEvents {
				fmt.Fprintf(w, "  ... and %d more\n", len(events)-maxSampleEvents)
				break
			}
			fmt.Fprintf(w, "  %d. [%s] %s - Port: %s\n", i+1, ev.Timestamp, ev.ErrorType, ev.LocalPort)
			fmt.Fprintf(w, "     Endpoint: %s\n", ev.Endpoint())
			fmt.Fprintf(w, "     %s\n", ev.RawLog)
		}
	}
	fmt.Fprintln(w, sectionRule)
}

func writeTopIPs(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "\nTOP 10 CONNECTING IP ADDRESSES:\n%s\n", sectionRule)
	for _, entry := range topN(stats.IPs, 10) {
		detail := stats.IPDetails[entry.Key]
		fmt.Fprintf(w, "%s (%s):\n", entry.Key, detail.Country)
		fmt.Fprintf(w, "  Connection attempts: %d\n", entry.Count)
		fmt.Fprintf(w, "  Ports accessed: %s\n", strings.Join(sortedKeys(detail.Ports), ", "))

		endpoints := sortedKeys(detail.Endpoints)
		if len(endpoints) > 0 && !(len(endpoints) == 1 && endpoints[0] == "Unknown") {
			fmt.Fprintf(w, "  Endpoints: %s\n", strings.Join(endpoints, ", "))
		}
		fmt.Fprintln(w)
	}
}

func writeTopCountries(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "\nTOP 5 COUNTRIES:\n%s\n", sectionRule)
	for _, entry := range topN(stats.Countries, 5) {
		fmt.Fprintf(w, "%s: %d connection attempts\n", entry.Key, entry.Count)
	}
}

func writeErrorTypes(w io.Writer, stats *Stats) {
	fmt.Fprintf(w, "\nERROR TYPES DISTRIBUTION:\n%s\n", sectionRule)
	for _, entry := range topN(stats.ErrorTypes, 0) {
		fmt.Fprintf(w, "%s: %d occurrences\n", entry.Key, entry.Count)
	}
}
