package asset

import (
	"sort"
	"strings"
	"time"
)

// Warranty buckets understood by FilterState.WarrantyStatus.
const (
	WarrantyAll      = "all"
	WarrantyActive   = "active"
	WarrantyExpiring = "expiring" // active but ending within 90 days
	WarrantyExpired  = "expired"
)

// expiringWindow is how far ahead the "expiring" warranty bucket looks.
const expiringWindow = 90 * 24 * time.Hour

// FilterState holds every active list criterion. Criteria combine
// conjunctively; zero values deactivate a criterion.
type FilterState struct {
	// Search does a case-insensitive substring match over name, serial
	// number, id and IP address.
	Search         string     `query:"search" json:"search"`
	CategoryID     string     `query:"category_id" json:"category_id"`
	LocationID     string     `query:"location_id" json:"location_id"`
	WarrantyStatus string     `query:"warranty_status" json:"warranty_status"`
	PowerMin       *float64   `query:"power_min" json:"power_min"`
	PowerMax       *float64   `query:"power_max" json:"power_max"`
	InstalledFrom  *time.Time `query:"installed_from" json:"installed_from"`
	InstalledTo    *time.Time `query:"installed_to" json:"installed_to"`
	PurchasedFrom  *time.Time `query:"purchased_from" json:"purchased_from"`
	PurchasedTo    *time.Time `query:"purchased_to" json:"purchased_to"`
}

func (fs *FilterState) IsEmpty() bool {
	return fs.Search == "" && fs.CategoryID == "" && fs.LocationID == "" &&
		(fs.WarrantyStatus == "" || fs.WarrantyStatus == WarrantyAll) &&
		fs.PowerMin == nil && fs.PowerMax == nil &&
		fs.InstalledFrom == nil && fs.InstalledTo == nil &&
		fs.PurchasedFrom == nil && fs.PurchasedTo == nil
}

// Sort picks the list ordering. Unknown fields fall back to id; ordering is
// always stable with an id-ascending tie-break.
type Sort struct {
	Field      string `query:"sort" json:"sort"`
	Descending bool   `query:"desc" json:"desc"`
}

// PageParams is a 1-indexed page request.
type PageParams struct {
	Page     int `query:"page" json:"page"`
	PageSize int `query:"page_size" json:"page_size"`
}

const defaultPageSize = 10

// Page is one window of the filtered and sorted list.
type Page struct {
	Items      []Asset `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int     `json:"total_count"`
	TotalPages int     `json:"total_pages"`
}

// Pipeline filters, sorts and paginates assets in memory. now anchors the
// warranty-status buckets.
func Pipeline(assets []Asset, fs FilterState, s Sort, p PageParams, now time.Time) Page {
	filtered := Filter(assets, fs, now)
	SortAssets(filtered, s)
	return Paginate(filtered, p)
}

// Filter returns the assets matching every active criterion. The input slice
// is not modified.
func Filter(assets []Asset, fs FilterState, now time.Time) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if matches(a, fs, now) {
			out = append(out, a)
		}
	}
	return out
}

func matches(a Asset, fs FilterState, now time.Time) bool {
	if fs.Search != "" {
		q := strings.ToLower(fs.Search)
		if !strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.SerialNumber), q) &&
			!strings.Contains(strings.ToLower(a.ID), q) &&
			!strings.Contains(strings.ToLower(a.IPAddress), q) {
			return false
		}
	}
	if fs.CategoryID != "" && a.CategoryID != fs.CategoryID {
		return false
	}
	if fs.LocationID != "" && a.LocationID != fs.LocationID {
		return false
	}
	if !matchesWarranty(a, fs.WarrantyStatus, now) {
		return false
	}
	if fs.PowerMin != nil && a.PowerConsumption < *fs.PowerMin {
		return false
	}
	if fs.PowerMax != nil && a.PowerConsumption > *fs.PowerMax {
		return false
	}
	if !inDateRange(a.InstallationDate, fs.InstalledFrom, fs.InstalledTo) {
		return false
	}
	if !inDateRange(a.PurchaseDate, fs.PurchasedFrom, fs.PurchasedTo) {
		return false
	}
	return true
}

func matchesWarranty(a Asset, status string, now time.Time) bool {
	switch status {
	case "", WarrantyAll:
		return true
	case WarrantyActive:
		return a.IsWarrantyActive(now)
	case WarrantyExpiring:
		end := a.WarrantyEnd()
		return end != nil && !now.After(*end) && end.Before(now.Add(expiringWindow))
	case WarrantyExpired:
		end := a.WarrantyEnd()
		return end != nil && now.After(*end)
	default:
		return false
	}
}

// inDateRange checks an inclusive [from, to] range; nil bounds are open and
// a nil value only matches an unbounded range.
func inDateRange(v, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if v == nil {
		return false
	}
	if from != nil && v.Before(*from) {
		return false
	}
	if to != nil && v.After(*to) {
		return false
	}
	return true
}

// SortAssets orders assets in place by the sort field and direction, with a
// stable id-ascending tie-break.
func SortAssets(assets []Asset, s Sort) {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if s.Descending {
			a, b = b, a
		}
		switch cmp := compareField(a, b, s.Field); {
		case cmp != 0:
			return cmp < 0
		default:
			// tie-break is id ascending regardless of direction
			return assets[i].ID < assets[j].ID
		}
	})
}

func compareField(a, b Asset, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "serial_number":
		return strings.Compare(strings.ToLower(a.SerialNumber), strings.ToLower(b.SerialNumber))
	case "power_consumption":
		return compareFloat(a.PowerConsumption, b.PowerConsumption)
	case "operating_hours":
		return a.OperatingHours - b.OperatingHours
	case "created_at":
		return compareTime(a.CreatedAt, b.CreatedAt)
	case "installation_date":
		return compareTimePtr(a.InstallationDate, b.InstallationDate)
	case "purchase_date":
		return compareTimePtr(a.PurchaseDate, b.PurchaseDate)
	default: // id
		return strings.Compare(a.ID, b.ID)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// compareTimePtr sorts unset dates last.
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return compareTime(*a, *b)
	}
}

// Paginate slices the 1-indexed page window out of assets. The page number
// clamps into [1, totalPages]; an empty list yields zero pages and an empty
// first page.
func Paginate(assets []Asset, p PageParams) Page {
	size := p.PageSize
	if size < 1 {
		size = defaultPageSize
	}

	total := len(assets)
	totalPages := (total + size - 1) / size

	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		if totalPages > 0 {
			page = totalPages
		} else {
			page = 1
		}
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]Asset, end-start)
	copy(items, assets[start:end])

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
