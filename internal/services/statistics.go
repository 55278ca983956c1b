package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/filadex/filadex-server/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaterialShare is one slice of the material distribution chart.
type MaterialShare struct {
	Material   string `json:"material"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AgedSpool names the oldest or newest dated spool.
type AgedSpool struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// StatsReport is the dashboard statistics payload.
type StatsReport struct {
	TotalSpools          int             `json:"totalSpools"`
	TotalWeight          float64         `json:"totalWeight"`
	RemainingWeight      float64         `json:"remainingWeight"`
	AverageRemaining     int             `json:"averageRemaining"`
	LowStockCount        int             `json:"lowStockCount"`
	MaterialDistribution []MaterialShare `json:"materialDistribution"`
	TopMaterials         []string        `json:"topMaterials"`
	TopColors            []string        `json:"topColors"`
	EstimatedValue       float64         `json:"estimatedValue"`
	TotalPurchaseValue   float64         `json:"totalPurchaseValue"`
	AverageAge           int             `json:"averageAge"`
	OldestFilament       *AgedSpool      `json:"oldestFilament"`
	NewestFilament       *AgedSpool      `json:"newestFilament"`
}

// materialUnitValues is the estimated market value in EUR per kilogram by
// material code. Unknown materials fall back to defaultUnitValue.
var materialUnitValues = []struct {
	Code  string
	Value float64
}{
	{"PEEK", 150},
	{"CARBON", 70},
	{"METAL", 90},
	{"NYLON", 60},
	{"PETG", 30},
	{"HIPS", 30},
	{"WOOD", 35},
	{"PLA", 25},
	{"ABS", 28},
	{"ASA", 32},
	{"TPU", 45},
	{"PVA", 80},
	{"PA", 60},
	{"PC", 55},
}

const defaultUnitValue = 30

// StatisticsService recomputes the dashboard report on every request.
type StatisticsService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Report loads the caller's filaments and folds them into a StatsReport.
func (s *StatisticsService) Report(caller *models.User) (*StatsReport, error) {
	var filaments []models.Filament
	if err := s.DB.Where("user_id = ?", caller.ID).Find(&filaments).Error; err != nil {
		return nil, err
	}
	report := ComputeStatistics(filaments, time.Now().UTC())
	return &report, nil
}

// ComputeStatistics folds the filament collection into the dashboard
// report in a single pass. It is deterministic for a fixed now except for
// frequency ties in the top rankings, which resolve by first appearance.
// A spool with a malformed weight or percentage contributes zero to the
// weight sums instead of poisoning the whole report.
func ComputeStatistics(filaments []models.Filament, now time.Time) StatsReport {
	report := StatsReport{
		TotalSpools:          len(filaments),
		MaterialDistribution: []MaterialShare{},
		TopMaterials:         []string{},
		TopColors:            []string{},
	}

	materialCounts := make(map[string]int)
	materialOrder := []string{}
	colorCounts := make(map[string]int)
	colorOrder := []string{}

	var totalWeight, remainingWeight, estimatedValue, purchaseValue float64
	var ageSum, agedCount int
	var oldest, newest *AgedSpool

	for i := range filaments {
		f := &filaments[i]

		weight := sanitizeWeight(f.TotalWeight)
		pct := clampPercentage(f.RemainingPercentage)
		remaining := weight * float64(pct) / 100

		totalWeight += weight
		remainingWeight += remaining

		if pct < 25 {
			report.LowStockCount++
		}

		if material := strings.ToLower(strings.TrimSpace(f.Material)); material != "" {
			if _, seen := materialCounts[material]; !seen {
				materialOrder = append(materialOrder, material)
			}
			materialCounts[material]++
		}
		if color := strings.TrimSpace(f.ColorName); color != "" {
			if _, seen := colorCounts[color]; !seen {
				colorOrder = append(colorOrder, color)
			}
			colorCounts[color]++
		}

		unitValue := materialUnitValue(f.Material)
		estimatedValue += remaining * unitValue
		if f.PurchasePrice != nil {
			purchaseValue += *f.PurchasePrice
		} else {
			purchaseValue += weight * unitValue
		}

		if f.PurchaseDate != nil {
			days := int(math.Floor(now.Sub(*f.PurchaseDate).Hours() / 24))
			ageSum += days
			agedCount++
			if oldest == nil || days > oldest.Days {
				oldest = &AgedSpool{Name: f.Name, Days: days}
			}
			if newest == nil || days < newest.Days {
				newest = &AgedSpool{Name: f.Name, Days: days}
			}
		}
	}

	report.TotalWeight = round2(totalWeight)
	report.RemainingWeight = round2(remainingWeight)
	if totalWeight > 0 {
		report.AverageRemaining = int(math.Round(remainingWeight / totalWeight * 100))
	}
	report.EstimatedValue = round2(estimatedValue)
	report.TotalPurchaseValue = round2(purchaseValue)

	// Distribution percentages are computed over the unfiltered full set;
	// only entries at or above 5% survive, capped at the top five.
	total := len(filaments)
	if total > 0 {
		shares := make([]MaterialShare, 0, len(materialOrder))
		for _, m := range materialOrder {
			pct := int(math.Round(float64(materialCounts[m]) / float64(total) * 100))
			if pct >= 5 {
				shares = append(shares, MaterialShare{Material: m, Count: materialCounts[m], Percentage: pct})
			}
		}
		sort.SliceStable(shares, func(i, j int) bool {
			return shares[i].Percentage > shares[j].Percentage
		})
		if len(shares) > 5 {
			shares = shares[:5]
		}
		report.MaterialDistribution = shares

		for i, share := range shares {
			if i == 3 {
				break
			}
			report.TopMaterials = append(report.TopMaterials, strings.ToUpper(share.Material))
		}
	}

	sort.SliceStable(colorOrder, func(i, j int) bool {
		return colorCounts[colorOrder[i]] > colorCounts[colorOrder[j]]
	})
	for i, color := range colorOrder {
		if i == 3 {
			break
		}
		report.TopColors = append(report.TopColors, color)
	}

	if agedCount > 0 {
		report.AverageAge = int(math.Round(float64(ageSum) / float64(agedCount)))
	}
	report.OldestFilament = oldest
	report.NewestFilament = newest

	return report
}

// materialUnitValue looks up the EUR/kg estimate for a material code. The
// match is case-insensitive and tolerates decorated names by resolving to
// the right-most known code, which is where the base polymer sits
// ("Carbon Fiber PETG" resolves as PETG, "PLA Silk" as PLA).
func materialUnitValue(material string) float64 {
	m := strings.ToUpper(strings.TrimSpace(material))
	if m == "" {
		return defaultUnitValue
	}
	for _, entry := range materialUnitValues {
		if m == entry.Code {
			return entry.Value
		}
	}
	best := -1
	value := float64(defaultUnitValue)
	for _, entry := range materialUnitValues {
		if idx := strings.LastIndex(m, entry.Code); idx > best {
			best = idx
			value = entry.Value
		}
	}
	return value
}

func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
