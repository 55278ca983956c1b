package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefFields is the raw client input for one reference item. Which fields
// matter depends on the resource: Name for most, Code additionally for
// colors, Value for diameters.
type RefFields struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Value string `json:"value"`
}

// ImportResult is the outcome of a CSV bulk import. Lines that fail
// validation or insertion are counted, never abort the batch.
type ImportResult struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// RefStore implements the shared contract of the five reference list
// resources: list, CSV export, create with case-insensitive dedup, CSV bulk
// import, delete guarded by filament usage, and sort-order updates for the
// sortable three.
type RefStore[T any] struct {
	DB  *gorm.DB
	Log *zap.Logger

	resource string   // plural resource name, for messages
	keywords []string // header detection and name-column resolution
	header   []string // CSV export header
	orderBy  string
	sortable bool

	build   func(RefFields) (*T, error)
	key     func(*T) string // case-insensitive dedup key, also the display name
	csvRow  func(*T) []string
	usage   func(tx *gorm.DB, item *T) (int64, error)
	fromCSV func(cols []string, nameIdx int) RefFields
}

// List returns all items in the resource's display order.
func (s *RefStore[T]) List() ([]T, error) {
	var items []T
	if err := s.DB.Order(s.orderBy).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ExportCSV renders the full list as CSV with a header row.
func (s *RefStore[T]) ExportCSV() (string, error) {
	items, err := s.List()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.header); err != nil {
		return "", err
	}
	for i := range items {
		if err := w.Write(s.csvRow(&items[i])); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// Create validates the fields and inserts a new item. Duplicate names are
// detected case-insensitively against the full list; the unique index on
// the name column is only a concurrency backstop.
func (s *RefStore[T]) Create(fields RefFields) (*T, error) {
	item, err := s.build(fields)
	if err != nil {
		return nil, err
	}

	existing, err := s.List()
	if err != nil {
		return nil, err
	}
	k := strings.ToLower(s.key(item))
	for i := range existing {
		if strings.ToLower(s.key(&existing[i])) == k {
			return nil, types.Duplicate("%q already exists in %s", s.key(item), s.resource)
		}
	}

	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// BulkImport ingests a CSV blob line by line. The first line is treated as
// a header when it contains one of the resource's keywords; the name column
// is resolved by keyword match and defaults to column 0. Existing names are
// loaded once up front; the whole import runs in a single transaction with
// a savepoint per insert so one bad line cannot poison the rest.
func (s *RefStore[T]) BulkImport(csvText string) (ImportResult, error) {
	var res ImportResult

	lines := strings.Split(strings.ReplaceAll(csvText, "\r\n", "\n"), "\n")
	start := 0
	nameIdx := 0
	if len(lines) > 0 && s.looksLikeHeader(lines[0]) {
		nameIdx = s.resolveNameColumn(lines[0])
		start = 1
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing []T
		if err := tx.Find(&existing).Error; err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(existing))
		for i := range existing {
			seen[strings.ToLower(s.key(&existing[i]))] = struct{}{}
		}

		for i := start; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}

			fields := s.fromCSV(splitCSVLine(line), nameIdx)
			item, err := s.build(fields)
			if err != nil {
				res.Errors++
				continue
			}

			k := strings.ToLower(s.key(item))
			if _, dup := seen[k]; dup {
				res.Duplicates++
				continue
			}

			sp := fmt.Sprintf("sp_import_%d", i)
			tx.SavePoint(sp)
			if err := tx.Create(item).Error; err != nil {
				tx.RollbackTo(sp)
				s.Log.Warn("import line rejected",
					zap.String("resource", s.resource),
					zap.Int("line", i+1),
					zap.Error(err))
				res.Errors++
				continue
			}

			seen[k] = struct{}{}
			res.Created++
		}
		return nil
	})

	return res, err
}

// Delete removes an item unless a filament still references it.
func (s *RefStore[T]) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var item T
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("Item %d not found in %s", id, s.resource)
			}
			return err
		}

		count, err := s.usage(tx, &item)
		if err != nil {
			return err
		}
		if count > 0 {
			return types.InUse("Cannot delete %q: referenced by %d filament(s)", s.key(&item), count)
		}

		return tx.Delete(&item).Error
	})
}

// UpdateOrder rewrites the sort-order column. Only manufacturers, materials
// and storage locations are sortable.
func (s *RefStore[T]) UpdateOrder(id uint, newOrder int) (*T, error) {
	if !s.sortable {
		return nil, types.Validation("%s does not support ordering", s.resource)
	}

	var item T
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("Item %d not found in %s", id, s.resource)
		}
		return nil, err
	}

	if err := s.DB.Model(&item).Update("sort_order", newOrder).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Sortable reports whether the resource carries a sort-order column.
func (s *RefStore[T]) Sortable() bool {
	return s.sortable
}

// Resource returns the plural resource name.
func (s *RefStore[T]) Resource() string {
	return s.resource
}

func (s *RefStore[T]) looksLikeHeader(line string) bool {
	l := strings.ToLower(line)
	for _, kw := range s.keywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

func (s *RefStore[T]) resolveNameColumn(headerLine string) int {
	cols := splitCSVLine(headerLine)
	for i, col := range cols {
		l := strings.ToLower(col)
		for _, kw := range s.keywords {
			if strings.Contains(l, kw) {
				return i
			}
		}
	}
	return 0
}

// splitCSVLine splits one line on commas and strips surrounding quotes and
// whitespace per cell. Reference lists are simple one- to three-column
// data; embedded commas inside quotes do not occur in practice.
func splitCSVLine(line string) []string {
	cols := strings.Split(line, ",")
	for i, col := range cols {
		cols[i] = strings.Trim(strings.TrimSpace(col), `"'`)
	}
	return cols
}

// colAt returns the trimmed cell at idx, or "" when the line is short.
func colAt(cols []string, idx int) string {
	if idx >= 0 && idx < len(cols) {
		return cols[idx]
	}
	return ""
}
