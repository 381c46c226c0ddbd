// Package timezone provides the admin timezone catalog and the two-tier
// admin timezone preference store.
package timezone

import (
	"time"
	"contestlet/internal/models"
	"contestlet/internal/timeconv"

	"github.com/maypok86/otter/v2"
)

// fallbackZone pairs an IANA identifier with the label shown in the picker.
type fallbackZone struct {
	Name        string
	DisplayName string
}

// fallbackZones is the hardcoded picker list served even when richer zone
// metadata cannot be computed. Order is the display order.
var fallbackZones = []fallbackZone{
	{"America/New_York", "Eastern Time (ET)"},
	{"America/Chicago", "Central Time (CT)"},
	{"America/Denver", "Mountain Time (MT)"},
	{"America/Phoenix", "Arizona Time (no DST)"},
	{"America/Los_Angeles", "Pacific Time (PT)"},
	{"America/Anchorage", "Alaska Time (AKT)"},
	{"Pacific/Honolulu", "Hawaii Time (HT)"},
	{"UTC", "Coordinated Universal Time (UTC)"},
	{"Europe/London", "UK Time (GMT/BST)"},
	{"Europe/Paris", "Central European Time (CET)"},
	{"Europe/Stockholm", "Sweden Time (CET)"},
	{"Asia/Tokyo", "Japan Time (JST)"},
	{"Asia/Shanghai", "China Time (CST)"},
	{"Asia/Kolkata", "India Time (IST)"},
	{"Australia/Sydney", "Australian Eastern Time (AET)"},
}

// Catalog computes picker metadata for timezones. Entries are held in an
// injected TTL cache rather than module-level state; expiry is the explicit
// refresh policy for the otherwise populate-once entries.
type Catalog struct {
	cache       *otter.Cache[string, models.TimezoneInfo]
	defaultZone string
}

// NewCatalog creates a catalog with the given default zone and cache TTL.
func NewCatalog(defaultZone string, ttl time.Duration) *Catalog {
	cache := otter.Must(&otter.Options[string, models.TimezoneInfo]{
		MaximumSize:      512,
		ExpiryCalculator: otter.ExpiryWriting[string, models.TimezoneInfo](ttl),
	})
	if defaultZone == "" {
		defaultZone = "UTC"
	}
	return &Catalog{cache: cache, defaultZone: defaultZone}
}

// DefaultZone returns the zone served when an admin has no preference.
func (c *Catalog) DefaultZone() string { return c.defaultZone }

// Validate checks that tz is a known IANA identifier.
func (c *Catalog) Validate(tz string) error {
	_, err := timeconv.LoadLocation(tz)
	return err
}

// DisplayName returns the picker label for a zone, falling back to the raw
// identifier for zones outside the hardcoded list.
func (c *Catalog) DisplayName(tz string) string {
	for _, z := range fallbackZones {
		if z.Name == tz {
			return z.DisplayName
		}
	}
	return tz
}

// Info returns picker metadata for one zone at the given instant. Unknown
// zones surface a typed InvalidTimezoneError; nothing is silently
// substituted.
func (c *Catalog) Info(tz string, now time.Time) (models.TimezoneInfo, error) {
	if info, ok := c.cache.GetIfPresent(tz); ok {
		return info, nil
	}

	loc, err := timeconv.LoadLocation(tz)
	if err != nil {
		return models.TimezoneInfo{}, err
	}

	local := now.In(loc)
	info := models.TimezoneInfo{
		Timezone:    tz,
		DisplayName: c.DisplayName(tz),
		CurrentTime: local.Format("2006-01-02T15:04:05-07:00"),
		UTCOffset:   local.Format("-07:00"),
		IsDST:       local.IsDST(),
	}
	c.cache.Set(tz, info)
	return info, nil
}

// List returns metadata for the hardcoded picker zones. A zone whose tzdata
// entry is missing on the host is skipped rather than failing the whole
// list.
func (c *Catalog) List(now time.Time) []models.TimezoneInfo {
	infos := make([]models.TimezoneInfo, 0, len(fallbackZones))
	for _, z := range fallbackZones {
		info, err := c.Info(z.Name, now)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos
}
