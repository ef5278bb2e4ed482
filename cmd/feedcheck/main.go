// Command feedcheck runs integrity checks against the public sighting and
// activity feeds (or local copies of them): parse yield, coordinate sanity,
// category and year distributions. It is the tool to reach for when the map
// suddenly shows fewer markers than expected.
//
// Usage:
//
//	go run ./cmd/feedcheck \
//	  -sightings https://mapa.lci-slovakia.sk/feeds/sightings.csv \
//	  -activities https://mapa.lci-slovakia.sk/feeds/activities.json
//
// Both flags also accept local file paths.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
	"github.com/lci-slovakia/sighting-map-service/internal/maprender"
)

// phase tracks pass/fail for one check phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	sightingSrc := flag.String("sightings", "", "sighting feed URL or file path")
	activitySrc := flag.String("activities", "", "activity feed URL or file path")
	flag.Parse()

	if *sightingSrc == "" || *activitySrc == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*sightingSrc, *activitySrc); code != 0 {
		os.Exit(code)
	}
}

func run(sightingSrc, activitySrc string) int {
	fmt.Println("=== Sighting Feed Integrity Check ===")
	fmt.Println()

	rawSightings, err := fetch(sightingSrc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load sighting feed: %v\n", err)
		return 1
	}
	rawActivities, err := fetch(activitySrc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load activity feed: %v\n", err)
		return 1
	}

	sightings := domain.ParseSightingFeed(string(rawSightings))
	activities, actErr := domain.ParseActivityFeed(rawActivities)

	phases := []*phase{
		checkSightingYield(rawSightings, sightings),
		checkCoordinates(sightings, activities),
		checkActivityFeed(activities, actErr),
		checkYears(sightings, activities),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	printDistributions(sightings, activities)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nCheck FAILED.")
	return 1
}

func fetch(src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(src)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, src)
	}
	return io.ReadAll(resp.Body)
}

// checkSightingYield compares parsed rows against raw data rows. A modest
// drop rate is normal (rows with broken coordinates); losing more than a
// quarter of the feed means the format changed under us.
func checkSightingYield(raw []byte, sightings []domain.Sighting) *phase {
	p := &phase{name: "Phase 1: Sighting Parse Yield"}

	dataRows := 0
	for i, line := range strings.Split(string(raw), "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		dataRows++
	}

	if dataRows == 0 {
		p.errorf("feed has no data rows")
		return p
	}
	if len(sightings) == 0 {
		p.errorf("no rows parsed out of %d", dataRows)
		return p
	}
	if dropped := dataRows - len(sightings); dropped*4 > dataRows {
		p.errorf("dropped %d of %d rows (>25%%)", dropped, dataRows)
	}
	return p
}

func checkCoordinates(sightings []domain.Sighting, activities []domain.Activity) *phase {
	p := &phase{name: "Phase 2: Coordinate Sanity"}

	for i, s := range sightings {
		if !maprender.Contains(s.Latitude, s.Longitude) {
			p.errorf("sighting %d: (%g, %g) outside map bounds", i, s.Latitude, s.Longitude)
		}
	}
	for i, a := range activities {
		if !maprender.Contains(a.Latitude, a.Longitude) {
			p.errorf("activity %d: (%g, %g) outside map bounds", i, a.Latitude, a.Longitude)
		}
	}
	return p
}

func checkActivityFeed(activities []domain.Activity, parseErr error) *phase {
	p := &phase{name: "Phase 3: Activity Feed"}

	if parseErr != nil {
		p.errorf("feed unparseable: %v", parseErr)
		return p
	}
	for i, a := range activities {
		if a.Year == 0 {
			p.errorf("activity %d: missing year", i)
		}
		if a.Description == "" {
			p.errorf("activity %d: missing description", i)
		}
	}
	return p
}

func checkYears(sightings []domain.Sighting, activities []domain.Activity) *phase {
	p := &phase{name: "Phase 4: Year Coverage"}

	years := domain.DistinctYears(sightings, activities)
	if len(years) == 0 {
		p.errorf("no selectable years derived from either feed")
	}
	for _, y := range years {
		if len(y) != 4 {
			p.errorf("malformed year %q in selection list", y)
		}
	}
	return p
}

func printDistributions(sightings []domain.Sighting, activities []domain.Activity) {
	fmt.Printf("Records: %d sightings, %d activities\n", len(sightings), len(activities))

	catCounts := map[domain.Category]int{}
	yearCounts := map[string]int{}
	unparseable := 0
	for _, s := range sightings {
		catCounts[s.Category]++
		if year, ok := s.Year(); ok {
			yearCounts[year]++
		} else {
			unparseable++
		}
	}

	fmt.Printf("By category: observation=%d, presence_signs=%d, conflict=%d\n",
		catCounts[domain.CategoryObservation], catCounts[domain.CategoryPresenceSigns], catCounts[domain.CategoryConflict])

	years := make([]string, 0, len(yearCounts))
	for y := range yearCounts {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	fmt.Print("By year: ")
	for _, y := range years {
		fmt.Printf("%s=%d ", y, yearCounts[y])
	}
	fmt.Println()
	if unparseable > 0 {
		fmt.Printf("Unparseable dates: %d (shown only when the current year is selected)\n", unparseable)
	}
}
