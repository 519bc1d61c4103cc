package grade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLevels_CheckpointShape(t *testing.T) {
	raw := RawLevels(`[
		{"completionPercentage": 50, "bonusPercentage": 3.0, "salary": 22000},
		{"completionPercentage": 80, "bonusPercentage": 4.5, "salary": 30000},
		{"completionPercentage": 100, "bonusPercentage": 5.5, "salary": 40000}
	]`)

	levels, usedDefault := NormalizeLevels(raw)
	require.False(t, usedDefault)
	require.Len(t, levels, 4)

	// the table did not start at zero, so a floor band was backfilled
	assert.True(t, levels[0].MinPercentage.IsZero())
	assert.True(t, levels[0].MaxPercentage.Equal(decimal.NewFromInt(50)))
	assert.True(t, levels[0].CommissionRate.IsZero())
	assert.True(t, levels[0].FixedSalary.Equal(decimal.NewFromInt(20000)))

	// each checkpoint closes at the next checkpoint's threshold
	assert.True(t, levels[1].MinPercentage.Equal(decimal.NewFromInt(50)))
	assert.True(t, levels[1].MaxPercentage.Equal(decimal.NewFromInt(80)))
	assert.True(t, levels[1].CommissionRate.Equal(decimal.RequireFromString("3.0")))

	// the last band extends to the ceiling
	assert.True(t, levels[3].MinPercentage.Equal(decimal.NewFromInt(100)))
	assert.True(t, levels[3].MaxPercentage.Equal(decimal.NewFromInt(LevelCeilingPercent)))
	assert.True(t, levels[3].FixedSalary.Equal(decimal.NewFromInt(40000)))
}

func TestNormalizeLevels_BandShape(t *testing.T) {
	raw := RawLevels(`[
		{"minPercentage": 0, "maxPercentage": 70, "commissionRate": 2.0, "fixedSalary": 21000},
		{"minPercentage": 70, "maxPercentage": 100, "commissionRate": 4.0, "fixedSalary": 28000}
	]`)

	levels, usedDefault := NormalizeLevels(raw)
	require.False(t, usedDefault)
	require.Len(t, levels, 2)
	assert.True(t, levels[0].CommissionRate.Equal(decimal.RequireFromString("2.0")))
	assert.True(t, levels[1].FixedSalary.Equal(decimal.NewFromInt(28000)))
}

func TestNormalizeLevels_SortsUnorderedInput(t *testing.T) {
	raw := RawLevels(`[
		{"completionPercentage": 100, "bonusPercentage": 6.0, "salary": 45000},
		{"completionPercentage": 0, "bonusPercentage": 1.0, "salary": 20000},
		{"completionPercentage": 60, "bonusPercentage": 3.5, "salary": 25000}
	]`)

	levels, usedDefault := NormalizeLevels(raw)
	require.False(t, usedDefault)
	require.Len(t, levels, 3)
	assert.True(t, levels[0].MinPercentage.IsZero())
	assert.True(t, levels[1].MinPercentage.Equal(decimal.NewFromInt(60)))
	assert.True(t, levels[2].MinPercentage.Equal(decimal.NewFromInt(100)))
}

func TestNormalizeLevels_FallsBackToDefaults(t *testing.T) {
	for name, raw := range map[string]RawLevels{
		"nil":        nil,
		"empty":      RawLevels(``),
		"emptyArray": RawLevels(`[]`),
		"malformed":  RawLevels(`{"not": "an array"}`),
	} {
		t.Run(name, func(t *testing.T) {
			levels, usedDefault := NormalizeLevels(raw)
			assert.True(t, usedDefault)
			assert.Len(t, levels, 9)
		})
	}
}

func TestDefaultLevels_Shape(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 9)

	// contiguous from zero to the ceiling
	assert.True(t, levels[0].MinPercentage.IsZero())
	for i := 1; i < len(levels); i++ {
		assert.True(t, levels[i].MinPercentage.Equal(levels[i-1].MaxPercentage))
	}
	assert.True(t, levels[8].MaxPercentage.Equal(decimal.NewFromInt(LevelCeilingPercent)))
}

func TestGoverningLevel(t *testing.T) {
	levels := DefaultLevels()

	tests := []struct {
		completion   string
		expectedRate string
	}{
		{"0", "0"},
		{"-20", "0"}, // clamped to the floor band
		{"49.99", "0"},
		{"50", "3.0"},
		{"95", "5.0"},
		{"100", "5.5"},
		{"119.99", "6.0"},
		{"120", "7.0"},
		{"2500", "7.0"}, // beyond the ceiling still governs the top band
	}

	for _, tt := range tests {
		lvl := GoverningLevel(levels, decimal.RequireFromString(tt.completion))
		assert.True(t, lvl.CommissionRate.Equal(decimal.RequireFromString(tt.expectedRate)),
			"completion %s: expected rate %s, got %s", tt.completion, tt.expectedRate, lvl.CommissionRate)
	}
}

func TestCompletionPercent(t *testing.T) {
	g := &Grade{Plan: decimal.NewFromInt(1440000)}
	assert.True(t, g.CompletionPercent(decimal.NewFromInt(1260000)).Equal(decimal.RequireFromString("87.5")))

	// a non-positive plan never divides
	broken := &Grade{Plan: decimal.Zero}
	assert.True(t, broken.CompletionPercent(decimal.NewFromInt(1000000)).IsZero())
}
