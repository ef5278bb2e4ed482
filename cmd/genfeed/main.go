// Command genfeed generates mock sighting CSV and activity JSON feeds for
// local development, shaped exactly like the public exports: comma-decimal
// coordinates, Slovak hazard phrases, and a sprinkling of broken rows the
// parser is expected to drop.
//
// Usage:
//
//	go run ./cmd/genfeed \
//	  -sightings-out data/mock/sightings.csv \
//	  -activities-out data/mock/activities.json \
//	  -count 200
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

const feedHeader = "OBJECTID,Ohrozenie,Datum,Poznamka,DruhOhrozenia,OhrozenieDetail,Hodina,Y,X"

var hazardPhrases = []string{
	"vizuálny kontakt",
	"pobytové znaky",
	"útok na hospodárske zvieratá",
	"vizuálny kontakt, následný útok",
	"pobytové znaky - trus",
	"",
}

var years = []int{2022, 2023, 2024, 2025}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sightingsOut := flag.String("sightings-out", "", "output path for the sighting CSV feed")
	activitiesOut := flag.String("activities-out", "", "output path for the activity JSON feed")
	count := flag.Int("count", 200, "number of sighting rows to generate")
	seed := flag.Int64("seed", 42, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	if *sightingsOut == "" || *activitiesOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -sightings-out, -activities-out")
	}

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // mock data, not crypto

	csvData := generateSightings(rng, *count)
	if err := writeFile(*sightingsOut, []byte(csvData)); err != nil {
		return fmt.Errorf("writing sighting feed: %w", err)
	}
	log.Printf("wrote sighting feed: %s", *sightingsOut)

	activities := generateActivities(rng, *count/10)
	jsonData, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFile(*activitiesOut, append(jsonData, '\n')); err != nil {
		return fmt.Errorf("writing activity feed: %w", err)
	}
	log.Printf("wrote activity feed: %s", *activitiesOut)

	printStats(csvData, activities)
	return nil
}

// generateSightings emits the delimited feed text. Roughly one row in twenty
// is deliberately broken: zero coordinates, garbage numbers, or short rows.
func generateSightings(rng *rand.Rand, count int) string {
	var b strings.Builder
	b.WriteString(feedHeader)
	b.WriteByte('\n')

	for i := 1; i <= count; i++ {
		hazard := hazardPhrases[rng.Intn(len(hazardPhrases))]
		year := years[rng.Intn(len(years))]
		date := fmt.Sprintf("%d-%02d-%02d", year, 1+rng.Intn(12), 1+rng.Intn(28))
		lat := 48.0 + rng.Float64()*1.5
		lon := 17.5 + rng.Float64()*4.5

		switch rng.Intn(20) {
		case 0:
			// Broken row variants the parser must drop or tolerate.
			switch rng.Intn(3) {
			case 0:
				fmt.Fprintf(&b, "%d,%s,%s,,,,,\"0\",\"0\"\n", i, hazard, date)
			case 1:
				fmt.Fprintf(&b, "%d,%s,%s,,,,,\"n/a\",\"n/a\"\n", i, hazard, date)
			default:
				fmt.Fprintf(&b, "%d,%s\n", i, hazard)
			}
		case 1:
			// Unparseable date, kept only under the current-year fallback.
			fmt.Fprintf(&b, "%d,\"%s\",neznámy,,,,,\"%s\",\"%s\"\n",
				i, hazard, commaDecimal(lat), commaDecimal(lon))
		default:
			fmt.Fprintf(&b, "%d,\"%s\",%s,,,,,\"%s\",\"%s\"\n",
				i, hazard, date, commaDecimal(lat), commaDecimal(lon))
		}
	}
	return b.String()
}

func generateActivities(rng *rand.Rand, count int) []domain.Activity {
	skMonths := []string{"január", "február", "marec", "apríl", "máj", "jún",
		"júl", "august", "september", "október", "november", "december"}

	activities := make([]domain.Activity, 0, count)
	for i := 0; i < count; i++ {
		year := years[rng.Intn(len(years))]
		month := rng.Intn(12)
		activities = append(activities, domain.Activity{
			Latitude:    48.0 + rng.Float64()*1.5,
			Longitude:   17.5 + rng.Float64()*4.5,
			Date:        fmt.Sprintf("%s %d", skMonths[month], year),
			Description: fmt.Sprintf("Medvedia aktualita č. %d", i+1),
			URL:         fmt.Sprintf("https://example.sk/aktuality/%d", i+1),
			IsConflict:  rng.Intn(5) == 0,
			Year:        year,
		})
	}
	return activities
}

func commaDecimal(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.6f", v), ".", ",")
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// printStats parses the generated feeds back through the real parser and
// prints the numbers a test author needs.
func printStats(csvData string, activities []domain.Activity) {
	sightings := domain.ParseSightingFeed(csvData)

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

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Parsed sightings: %d\n", len(sightings))
	fmt.Printf("By category: observation=%d, presence_signs=%d, conflict=%d\n",
		catCounts[domain.CategoryObservation], catCounts[domain.CategoryPresenceSigns], catCounts[domain.CategoryConflict])
	for _, y := range domain.DistinctYears(sightings, activities) {
		fmt.Printf("  %s: %d sightings\n", y, yearCounts[y])
	}
	fmt.Printf("Unparseable dates: %d\n", unparseable)
	fmt.Printf("Activities: %d\n", len(activities))
}
