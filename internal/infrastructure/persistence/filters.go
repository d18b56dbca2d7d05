package persistence

import (
	"strings"

	"github.com/craftstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowedSortColumns is the whitelist of columns callers may order by.
// OrderBy values outside this set fall back to the repository default,
// preventing SQL injection through the sort parameter.
var allowedSortColumns = map[string]bool{
	"created_at":         true,
	"updated_at":         true,
	"entry_date":         true,
	"expiry_date":        true,
	"lot_number":         true,
	"sku_code":           true,
	"code":               true,
	"name":               true,
	"quantity":           true,
	"remaining_quantity": true,
	"cost_per_unit":      true,
}

// applyFilter applies pagination and ordering from a shared.Filter.
// defaultOrder is used when no valid OrderBy is given.
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && allowedSortColumns[filter.OrderBy] {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}
