package grade

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// PerformanceLevel is one canonical [MinPercentage, MaxPercentage) slice of
// plan completion mapped to a commission rate and a fixed salary.
type PerformanceLevel struct {
	MinPercentage  decimal.Decimal `json:"min_percentage"`
	MaxPercentage  decimal.Decimal `json:"max_percentage"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	FixedSalary    decimal.Decimal `json:"fixed_salary"`
	Description    string          `json:"description,omitempty"`
}

// LevelCeilingPercent closes the open-ended top band
const LevelCeilingPercent = 1000

// minimumFixedSalary is the base pay for the backfilled [0, firstThreshold) band
var minimumFixedSalary = decimal.NewFromInt(20000)

// rawLevel decodes a single stored level in either of the two shapes the
// column has carried over time: the canonical band shape and the legacy
// checkpoint shape ({completionPercentage, bonusPercentage, salary}).
type rawLevel struct {
	MinPercentage  *decimal.Decimal `json:"minPercentage"`
	MaxPercentage  *decimal.Decimal `json:"maxPercentage"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	FixedSalary    *decimal.Decimal `json:"fixedSalary"`

	CompletionPercentage *decimal.Decimal `json:"completionPercentage"`
	BonusPercentage      *decimal.Decimal `json:"bonusPercentage"`
	Salary               *decimal.Decimal `json:"salary"`

	Description string `json:"description"`
}

// threshold is the opening percentage of the band, whichever shape
func (l rawLevel) threshold() decimal.Decimal {
	if l.CompletionPercentage != nil {
		return *l.CompletionPercentage
	}
	return orZero(l.MinPercentage)
}

// NormalizeLevels converts the stored pay table into sorted canonical bands.
//
// Checkpoint-shaped entries become bands opened by their own percentage and
// closed by the next checkpoint (the last one extends to LevelCeilingPercent).
// If the table does not start at zero, a [0, firstThreshold) band with zero
// commission and the minimum fixed salary is backfilled. A missing or
// malformed table is replaced with DefaultLevels; the second return value
// reports that substitution so callers can surface it.
func NormalizeLevels(raw RawLevels) ([]PerformanceLevel, bool) {
	var rawLevels []rawLevel
	if len(raw) == 0 || json.Unmarshal([]byte(raw), &rawLevels) != nil || len(rawLevels) == 0 {
		return DefaultLevels(), true
	}

	// checkpoints close at the next checkpoint's threshold, so order the
	// raw entries before building bands
	sort.SliceStable(rawLevels, func(i, j int) bool {
		return rawLevels[i].threshold().LessThan(rawLevels[j].threshold())
	})

	levels := make([]PerformanceLevel, 0, len(rawLevels)+1)
	for i, lvl := range rawLevels {
		if lvl.CompletionPercentage != nil {
			max := decimal.NewFromInt(LevelCeilingPercent)
			if i < len(rawLevels)-1 && rawLevels[i+1].CompletionPercentage != nil {
				max = *rawLevels[i+1].CompletionPercentage
			}
			levels = append(levels, PerformanceLevel{
				MinPercentage:  *lvl.CompletionPercentage,
				MaxPercentage:  max,
				CommissionRate: orZero(lvl.BonusPercentage),
				FixedSalary:    orZero(lvl.Salary),
				Description:    lvl.Description,
			})
			continue
		}

		levels = append(levels, PerformanceLevel{
			MinPercentage:  orZero(lvl.MinPercentage),
			MaxPercentage:  orDefault(lvl.MaxPercentage, decimal.NewFromInt(100)),
			CommissionRate: orZero(lvl.CommissionRate),
			FixedSalary:    orZero(lvl.FixedSalary),
			Description:    lvl.Description,
		})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].MinPercentage.LessThan(levels[j].MinPercentage)
	})

	if levels[0].MinPercentage.GreaterThan(decimal.Zero) {
		levels = append([]PerformanceLevel{{
			MinPercentage:  decimal.Zero,
			MaxPercentage:  levels[0].MinPercentage,
			CommissionRate: decimal.Zero,
			FixedSalary:    minimumFixedSalary,
		}}, levels...)
	}

	return levels, false
}

// GoverningLevel returns the band that applies at the given completion
// percentage: the highest band whose MinPercentage does not exceed it,
// clamped to the lowest band when completion is below every threshold.
// Levels must be sorted ascending by MinPercentage, which both
// NormalizeLevels and DefaultLevels guarantee.
func GoverningLevel(levels []PerformanceLevel, completion decimal.Decimal) PerformanceLevel {
	if len(levels) == 0 {
		levels = DefaultLevels()
	}

	selected := levels[0]
	for _, lvl := range levels {
		if completion.GreaterThanOrEqual(lvl.MinPercentage) {
			selected = lvl
		} else {
			break
		}
	}
	return selected
}

// DefaultLevels is the fallback pay table used when a grade carries no
// usable performance levels
func DefaultLevels() []PerformanceLevel {
	return []PerformanceLevel{
		newLevel(0, 50, "0", 20000),
		newLevel(50, 60, "3.0", 22000),
		newLevel(60, 70, "3.5", 25000),
		newLevel(70, 80, "4.0", 27000),
		newLevel(80, 90, "4.5", 30000),
		newLevel(90, 100, "5.0", 35000),
		newLevel(100, 110, "5.5", 40000),
		newLevel(110, 120, "6.0", 45000),
		newLevel(120, LevelCeilingPercent, "7.0", 50000),
	}
}

func newLevel(min, max int64, rate string, salary int64) PerformanceLevel {
	return PerformanceLevel{
		MinPercentage:  decimal.NewFromInt(min),
		MaxPercentage:  decimal.NewFromInt(max),
		CommissionRate: decimal.RequireFromString(rate),
		FixedSalary:    decimal.NewFromInt(salary),
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func orDefault(d *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if d == nil {
		return def
	}
	return *d
}
