// Command genmock generates a fixture of synthetic risk assessments, a few per
// Indian state, using the real scoring code so the output matches what the
// service would return for the same readings.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/assessments.json -per-state 5 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/fixture"
	"github.com/jonboulle/clockwork"
)

// Fixed assessment time so regenerated fixtures diff cleanly.
var fixtureTime = time.Date(2024, time.July, 15, 6, 0, 0, 0, time.UTC)

// Degrees of jitter around each state's representative point.
const jitterDeg = 0.5

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the assessment fixture")
	perState := flag.Int("per-state", 5, "samples generated per state")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" || *perState <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	faker := gofakeit.New(*seed)
	states := domain.IndianStates()
	records := make([]fixture.Record, 0, len(states)*(*perState))

	for _, s := range states {
		for range *perState {
			lat := clampToIndia(s.Lat+faker.Float64Range(-jitterDeg, jitterDeg), domain.IndiaBounds.South, domain.IndiaBounds.North)
			lng := clampToIndia(s.Lng+faker.Float64Range(-jitterDeg, jitterDeg), domain.IndiaBounds.West, domain.IndiaBounds.East)
			a := domain.NewAssessment(randomFactors(faker), lat, lng)
			records = append(records, fixture.Record{
				State:      s.Name,
				AssessedAt: a.AssessedAt,
				Assessment: a,
			})
		}
	}

	if err := fixture.Write(*out, records); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d assessments to %s", len(records), *out)

	printStats(records)
	return nil
}

// randomFactors draws readings that span every risk level: dry and calm to
// monsoon downpours, coastal plains to hill stations.
func randomFactors(f *gofakeit.Faker) domain.RiskFactors {
	rain := 0.0
	if f.Bool() {
		rain = f.Float64Range(0, 25)
	}
	return domain.RiskFactors{
		Rain1h:     domain.Round(rain, 2),
		WindMS:     domain.Round(f.Float64Range(0, 25), 2),
		ElevationM: domain.Round(f.Float64Range(0, 2500), 1),
		RiverKM:    domain.DefaultRiverKM,
		PopDensity: domain.DefaultPopDensity,
	}
}

func clampToIndia(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

type levelCount struct {
	level domain.Level
	count int
}

func printStats(records []fixture.Record) {
	counts := map[domain.Level]int{}
	stateHigh := map[string]int{}
	var maxScore float64
	var maxState string

	for i := range records {
		r := &records[i]
		counts[r.Level]++
		if r.Level == domain.LevelHigh {
			stateHigh[r.State]++
		}
		if r.Score > maxScore {
			maxScore, maxState = r.Score, r.State
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))

	lc := make([]levelCount, 0, len(counts))
	for l, c := range counts {
		lc = append(lc, levelCount{l, c})
	}
	sort.Slice(lc, func(i, j int) bool { return lc[i].count > lc[j].count })
	fmt.Print("By level:")
	for _, c := range lc {
		fmt.Printf(" %s=%d", c.level, c.count)
	}
	fmt.Println()

	fmt.Printf("States with at least one High: %d\n", len(stateHigh))
	fmt.Printf("Max score: %.3f (%s)\n", maxScore, maxState)
}
