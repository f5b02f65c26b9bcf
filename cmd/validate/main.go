// Command validate checks a genmock assessment fixture against the current
// scoring code. It re-scores every record from its stored factors and
// verifies the classification, probability, and geography invariants.
//
// Usage:
//
//	go run ./cmd/validate -fixture data/mock/assessments.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/fixture"
)

const probTolerance = 1e-9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("fixture", "", "path to the assessment fixture")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Risk Fixture Validation ===")
	fmt.Println()

	records, err := fixture.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateScoring(records),
		validateClassification(records),
		validateGeography(records),
	}

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
	fmt.Printf("Records: %d\n", len(records))

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
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Scoring ──
// Stored predictions must match a fresh score of the stored factors.

func validateScoring(records []fixture.Record) *phase {
	p := &phase{name: "Phase 1: Scoring (re-score factors)"}

	for i := range records {
		r := &records[i]
		if r.Factors != r.Factors.Sanitized() {
			p.errorf("record %d (%s): factors not sanitized: %+v", i, r.State, r.Factors)
		}
		got := domain.Score(r.Factors, r.Lat, r.Lng)
		if got != r.RiskPrediction {
			p.errorf("record %d (%s): stored %+v, re-scored %+v", i, r.State, r.RiskPrediction, got)
		}
	}
	return p
}

// ── Phase 2: Classification ──
// Scores are rounded and in range, and level, probabilities, and color agree.

func validateClassification(records []fixture.Record) *phase {
	p := &phase{name: "Phase 2: Classification invariants"}

	for i := range records {
		r := &records[i]
		if r.Score < 0 || r.Score > 1 {
			p.errorf("record %d: score %v outside [0,1]", i, r.Score)
		}
		if domain.Round(r.Score, 3) != r.Score {
			p.errorf("record %d: score %v not rounded to 3 places", i, r.Score)
		}
		if want := expectedLevel(r.Score); r.Level != want {
			p.errorf("record %d: score %v has level %s, want %s", i, r.Score, r.Level, want)
		}

		var sum, maxProb float64
		maxIdx := -1
		for j, v := range r.Probs {
			sum += v
			if v > maxProb {
				maxProb, maxIdx = v, j
			}
		}
		if math.Abs(sum-1) > probTolerance {
			p.errorf("record %d: probs %v sum to %v", i, r.Probs, sum)
		}
		if levels := [3]domain.Level{domain.LevelLow, domain.LevelMedium, domain.LevelHigh}; maxIdx < 0 || levels[maxIdx] != r.Level {
			p.errorf("record %d: probs %v do not favor level %s", i, r.Probs, r.Level)
		}

		if domain.LevelToColor(string(r.Level)) == domain.LevelToColor("") {
			p.errorf("record %d: level %q has no display color", i, r.Level)
		}
	}
	return p
}

func expectedLevel(score float64) domain.Level {
	switch {
	case score > 0.65:
		return domain.LevelHigh
	case score > 0.4:
		return domain.LevelMedium
	default:
		return domain.LevelLow
	}
}

// ── Phase 3: Geography ──
// Every sample lies inside India and names a known state.

func validateGeography(records []fixture.Record) *phase {
	p := &phase{name: "Phase 3: Geography"}

	known := map[string]bool{}
	for _, s := range domain.IndianStates() {
		known[s.Name] = true
	}

	seen := map[string]bool{}
	for i := range records {
		r := &records[i]
		if !domain.InIndia(r.Lat, r.Lng) {
			p.errorf("record %d (%s): %g,%g outside India bounds", i, r.State, r.Lat, r.Lng)
		}
		if !known[r.State] {
			p.errorf("record %d: unknown state %q", i, r.State)
		}
		seen[r.State] = true
	}
	if len(seen) != len(known) {
		p.errorf("fixture covers %d of %d states", len(seen), len(known))
	}
	return p
}
