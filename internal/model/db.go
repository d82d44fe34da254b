package model

import "time"

// Replica tables. Primary keys are the natural keys from the POS provider so
// that both delivery paths (webhooks, historical sync) upsert idempotently.

type Location struct {
	LocationID string `gorm:"primaryKey;size:64;not null"` // pos location id
	Name       string `gorm:"size:128"`
	Timezone   string `gorm:"size:64"`
	Currency   string `gorm:"size:8"`
	Status     string `gorm:"size:32"` // ACTIVE, INACTIVE
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Item struct {
	// pos catalog item id, or GENERATED_<NORMALIZED_NAME> when the line item
	// carried no catalog reference
	ItemID     string `gorm:"primaryKey;size:64;not null"`
	Name       string `gorm:"size:128;not null"`
	Category   string `gorm:"size:64;index;not null"`
	CategoryID string `gorm:"size:64"` // pos category id, empty when inferred
	Active     bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`     // internal id, referenced by line items
	OrderID    string `gorm:"uniqueIndex;size:64;not null"` // pos order id
	LocationID string `gorm:"size:64;index;not null"`
	State      string `gorm:"size:32;index;not null"` // OPEN, COMPLETED, CANCELED
	// integer minor currency units
	TotalAmount int64  `gorm:"not null"`
	Currency    string `gorm:"size:8;not null"`
	// provider version counter, monotonically increasing; never written backwards
	Version   int64     `gorm:"not null"`
	Source    string    `gorm:"size:64"`
	OrderedAt time.Time `gorm:"index"`
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LineItem struct {
	UID     string `gorm:"primaryKey;size:64;not null"` // pos line item uid
	OrderID uint64 `gorm:"index;not null"`              // FK → orders.id (internal, not the pos id)
	// nil while the item is unresolved; linked on a later sighting
	ItemID         *string `gorm:"size:64;index"`
	Name           string  `gorm:"size:128;not null"`
	Quantity       int32   `gorm:"not null"`
	UnitPrice      int64   `gorm:"not null"`
	TotalPrice     int64   `gorm:"not null"`
	TaxAmount      int64   `gorm:"not null"`
	DiscountAmount int64   `gorm:"not null"`
	VariationName  string  `gorm:"size:128"`
	// category at write time; may be coarser than the item's current category
	Category  string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WebhookEvent is an audit log of processed deliveries, kept so failures can
// be replayed by hand. Duplicate event ids are absorbed, not errors.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	MerchantID  string `gorm:"size:64"`
	RetryNumber int32
	ProcessedAt time.Time
	CreatedAt   time.Time
}
