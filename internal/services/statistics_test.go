package services_test

import (
	"math"
	"testing"
	"time"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/services"
)

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func floatPtr(v float64) *float64 { return &v }

// TestComputeStatisticsEmpty tests that an empty inventory produces a zeroed
// report with non-nil slices.
func TestComputeStatisticsEmpty(t *testing.T) {
	report := services.ComputeStatistics(nil, time.Now().UTC())

	if report.TotalSpools != 0 {
		t.Errorf("Expected 0 spools, got %d", report.TotalSpools)
	}
	if report.MaterialDistribution == nil || report.TopMaterials == nil || report.TopColors == nil {
		t.Error("Expected empty slices, not nil")
	}
	if report.OldestFilament != nil || report.NewestFilament != nil {
		t.Error("Expected nil age extremes for empty inventory")
	}
}

// TestComputeStatisticsWeightedAverage tests that the average remaining is
// weighted by spool size, not a plain mean of percentages.
func TestComputeStatisticsWeightedAverage(t *testing.T) {
	filaments := []models.Filament{
		{Name: "big", TotalWeight: 1.0, RemainingPercentage: 50},
		{Name: "small", TotalWeight: 0.5, RemainingPercentage: 100},
	}

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	if report.TotalWeight != 1.5 {
		t.Errorf("Expected total weight 1.5, got %v", report.TotalWeight)
	}
	if report.RemainingWeight != 1.0 {
		t.Errorf("Expected remaining weight 1.0, got %v", report.RemainingWeight)
	}
	// 1.0 / 1.5 = 66.67%, a plain mean would give 75%.
	if report.AverageRemaining != 67 {
		t.Errorf("Expected weighted average 67, got %d", report.AverageRemaining)
	}
}

// TestComputeStatisticsDistribution tests the material distribution with the
// five percent cutoff and the top rankings.
func TestComputeStatisticsDistribution(t *testing.T) {
	var filaments []models.Filament
	add := func(n int, material, color string) {
		for i := 0; i < n; i++ {
			filaments = append(filaments, models.Filament{
				Name: material, Material: material, ColorName: color,
				TotalWeight: 1, RemainingPercentage: 100,
			})
		}
	}
	add(6, "PLA", "Black")
	add(3, "ABS", "Red")
	add(1, "TPU", "Black")

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	if len(report.MaterialDistribution) != 3 {
		t.Fatalf("Expected 3 distribution entries, got %d", len(report.MaterialDistribution))
	}
	first := report.MaterialDistribution[0]
	if first.Material != "pla" || first.Count != 6 || first.Percentage != 60 {
		t.Errorf("Unexpected leading share: %+v", first)
	}
	if report.MaterialDistribution[2].Percentage != 10 {
		t.Errorf("Expected TPU at 10%%, got %d", report.MaterialDistribution[2].Percentage)
	}

	if len(report.TopMaterials) != 3 || report.TopMaterials[0] != "PLA" {
		t.Errorf("Unexpected top materials: %v", report.TopMaterials)
	}
	// Black appears 7 times, Red 3 times.
	if len(report.TopColors) != 2 || report.TopColors[0] != "Black" {
		t.Errorf("Unexpected top colors: %v", report.TopColors)
	}
}

// TestComputeStatisticsDistributionCutoff tests that materials under five
// percent of the whole collection are dropped from the chart.
func TestComputeStatisticsDistributionCutoff(t *testing.T) {
	var filaments []models.Filament
	for i := 0; i < 24; i++ {
		filaments = append(filaments, models.Filament{Material: "PLA", TotalWeight: 1, RemainingPercentage: 100})
	}
	filaments = append(filaments, models.Filament{Material: "TPU", TotalWeight: 1, RemainingPercentage: 100})

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	// TPU is 1 of 25 spools, 4%: below the cutoff.
	if len(report.MaterialDistribution) != 1 || report.MaterialDistribution[0].Material != "pla" {
		t.Errorf("Expected only pla to survive the cutoff, got %+v", report.MaterialDistribution)
	}
}

// TestComputeStatisticsDistributionBoundary tests that a material sitting
// at exactly five percent of the collection is kept in the chart.
func TestComputeStatisticsDistributionBoundary(t *testing.T) {
	var filaments []models.Filament
	for i := 0; i < 19; i++ {
		filaments = append(filaments, models.Filament{Material: "PLA", TotalWeight: 1, RemainingPercentage: 100})
	}
	filaments = append(filaments, models.Filament{Material: "TPU", TotalWeight: 1, RemainingPercentage: 100})

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	// TPU is 1 of 20 spools, exactly 5%: the cutoff is inclusive.
	if len(report.MaterialDistribution) != 2 {
		t.Fatalf("Expected 2 distribution entries, got %+v", report.MaterialDistribution)
	}
	last := report.MaterialDistribution[1]
	if last.Material != "tpu" || last.Count != 1 || last.Percentage != 5 {
		t.Errorf("Expected tpu kept at exactly 5%%, got %+v", last)
	}
}

// TestComputeStatisticsValue tests the estimated value lookup including
// decorated material names and the purchase price fallback.
func TestComputeStatisticsValue(t *testing.T) {
	filaments := []models.Filament{
		// 1 kg PLA at 50% remaining, no purchase price: 0.5 * 25 estimated,
		// fallback 1.0 * 25 purchase value.
		{Material: "PLA", TotalWeight: 1.0, RemainingPercentage: 50},
		// Decorated name resolves to PETG (30/kg); explicit purchase price
		// wins over the fallback.
		{Material: "Carbon Fiber PETG", TotalWeight: 1.0, RemainingPercentage: 100, PurchasePrice: floatPtr(19.99)},
		// Unknown material falls back to the 30/kg default.
		{Material: "Mystery", TotalWeight: 2.0, RemainingPercentage: 100},
	}

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	want := 0.5*25 + 1.0*30 + 2.0*30
	if report.EstimatedValue != want {
		t.Errorf("Expected estimated value %v, got %v", want, report.EstimatedValue)
	}
	wantPurchase := 1.0*25 + 19.99 + 2.0*30
	if report.TotalPurchaseValue != wantPurchase {
		t.Errorf("Expected purchase value %v, got %v", wantPurchase, report.TotalPurchaseValue)
	}
}

// TestComputeStatisticsDecoratedMaterials tests that decorated material
// names resolve to the base polymer, not a filler descriptor that also
// appears in the value table.
func TestComputeStatisticsDecoratedMaterials(t *testing.T) {
	filaments := []models.Filament{
		// CARBON is in the table too, but PETG is the base polymer here.
		{Material: "Carbon Fiber PETG", TotalWeight: 1.0, RemainingPercentage: 100},
		{Material: "Wood PLA", TotalWeight: 1.0, RemainingPercentage: 100},
		{Material: "PLA Silk", TotalWeight: 1.0, RemainingPercentage: 100},
	}

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	want := 1.0*30 + 1.0*25 + 1.0*25
	if report.EstimatedValue != want {
		t.Errorf("Expected estimated value %v, got %v", want, report.EstimatedValue)
	}
}

// TestComputeStatisticsAges tests the age average and extremes from the
// purchase dates.
func TestComputeStatisticsAges(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	filaments := []models.Filament{
		{Name: "old", TotalWeight: 1, RemainingPercentage: 100, PurchaseDate: daysAgo(now, 40)},
		{Name: "new", TotalWeight: 1, RemainingPercentage: 100, PurchaseDate: daysAgo(now, 10)},
		{Name: "undated", TotalWeight: 1, RemainingPercentage: 100},
	}

	report := services.ComputeStatistics(filaments, now)

	if report.AverageAge != 25 {
		t.Errorf("Expected average age 25, got %d", report.AverageAge)
	}
	if report.OldestFilament == nil || report.OldestFilament.Name != "old" || report.OldestFilament.Days != 40 {
		t.Errorf("Unexpected oldest: %+v", report.OldestFilament)
	}
	if report.NewestFilament == nil || report.NewestFilament.Name != "new" || report.NewestFilament.Days != 10 {
		t.Errorf("Unexpected newest: %+v", report.NewestFilament)
	}
}

// TestComputeStatisticsMalformedValues tests that broken numeric fields
// degrade to zero contributions instead of poisoning the report.
func TestComputeStatisticsMalformedValues(t *testing.T) {
	filaments := []models.Filament{
		{Material: "PLA", TotalWeight: math.NaN(), RemainingPercentage: 50},
		{Material: "PLA", TotalWeight: -5, RemainingPercentage: 50},
		{Material: "PLA", TotalWeight: 1.0, RemainingPercentage: 150},
		{Material: "PLA", TotalWeight: 1.0, RemainingPercentage: -20},
	}

	report := services.ComputeStatistics(filaments, time.Now().UTC())

	if report.TotalSpools != 4 {
		t.Errorf("Expected all 4 spools counted, got %d", report.TotalSpools)
	}
	if report.TotalWeight != 2.0 {
		t.Errorf("Expected total weight 2.0, got %v", report.TotalWeight)
	}
	// 150% clamps to 100%, -20% clamps to 0%.
	if report.RemainingWeight != 1.0 {
		t.Errorf("Expected remaining weight 1.0, got %v", report.RemainingWeight)
	}
	if report.LowStockCount != 1 {
		t.Errorf("Expected 1 low stock spool, got %d", report.LowStockCount)
	}
}
