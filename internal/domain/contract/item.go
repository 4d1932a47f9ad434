package contract

// ItemType classifies a contract line item. Only non-text types are
// actionable, meaning a ticket can be attached to them.
type ItemType string

const (
	// ItemTypeText is a decorative line with no behavior
	ItemTypeText ItemType = "text"

	// ItemTypeToggle is an entitlement that is either on or off
	ItemTypeToggle ItemType = "toggle"

	// ItemTypeLimit is an entitlement with a numeric usage cap per period
	ItemTypeLimit ItemType = "limit"

	// ItemTypeUnlimited is an entitlement with no cap
	ItemTypeUnlimited ItemType = "unlimited"

	// ItemTypeLocation is an entitlement describing where service is delivered
	ItemTypeLocation ItemType = "location"
)

// IsValid returns true if the item type is a known value
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeText, ItemTypeToggle, ItemTypeLimit, ItemTypeUnlimited, ItemTypeLocation:
		return true
	}
	return false
}

// IsActionable returns true if tickets can be attached to items of this type
func (t ItemType) IsActionable() bool {
	return t.IsValid() && t != ItemTypeText
}

// Location describes where a location-typed entitlement applies
type Location string

const (
	// LocationRemote covers remote-only service
	LocationRemote Location = "remote"

	// LocationOnSite covers on-site-only service
	LocationOnSite Location = "on-site"

	// LocationBoth covers both delivery modes
	LocationBoth Location = "both"
)

// IsValid returns true if the location is a known value
func (l Location) IsValid() bool {
	switch l {
	case LocationRemote, LocationOnSite, LocationBoth:
		return true
	}
	return false
}

// Item is one line of a contract's entitlement summary.
// Value is meaningful only for limit items, Enabled only for toggles,
// Loc only for location items, and Period only for limit items.
type Item struct {
	ID      string      `json:"id"`
	Text    string      `json:"text"`
	Type    ItemType    `json:"type"`
	Enabled bool        `json:"enabled,omitempty"`
	Value   int         `json:"value,omitempty"`
	Loc     Location    `json:"location,omitempty"`
	Period  LimitPeriod `json:"limit_period,omitempty"`
}

// HasEnforceableLimit returns true if the item carries a limit that can
// actually deny ticket creation. A limit item without a positive value
// has no enforceable limit and is always allowed.
func (i Item) HasEnforceableLimit() bool {
	return i.Type == ItemTypeLimit && i.Value > 0
}

// EffectivePeriod returns the item's limit period, defaulting to monthly
// when unset.
func (i Item) EffectivePeriod() LimitPeriod {
	if i.Period.IsValid() {
		return i.Period
	}
	return PeriodMonthly
}
