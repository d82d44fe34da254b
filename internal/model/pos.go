package model

import (
	"encoding/json"
	"time"
)

// Wire types for the POS provider API.

type Money struct {
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
}

type PosLocation struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type OrderSource struct {
	Name string `json:"name"`
}

type PosLineItem struct {
	UID             string `json:"uid"`
	Name            string `json:"name"`
	Quantity        int32  `json:"quantity"`
	CatalogObjectID string `json:"catalog_object_id,omitempty"` // variation id
	VariationName   string `json:"variation_name,omitempty"`
	BasePrice       Money  `json:"base_price_money"`
	TotalPrice      Money  `json:"total_money"`
	TotalTax        Money  `json:"total_tax_money"`
	TotalDiscount   Money  `json:"total_discount_money"`
}

type PosOrder struct {
	ID         string        `json:"id"`
	LocationID string        `json:"location_id"`
	State      string        `json:"state"` // OPEN, COMPLETED, CANCELED
	Version    int64         `json:"version"`
	Source     OrderSource   `json:"source"`
	Total      Money         `json:"total_money"`
	LineItems  []PosLineItem `json:"line_items"`
	CreatedAt  time.Time     `json:"created_at"`
	ClosedAt   *time.Time    `json:"closed_at,omitempty"`
}

// ---- catalog listing ----

type CatalogObject struct {
	Type          string                `json:"type"` // ITEM, ITEM_VARIATION, CATEGORY
	ID            string                `json:"id"`
	ItemData      *CatalogItemData      `json:"item_data,omitempty"`
	VariationData *CatalogVariationData `json:"item_variation_data,omitempty"`
	CategoryData  *CatalogCategoryData  `json:"category_data,omitempty"`
}

type CatalogItemData struct {
	Name        string   `json:"name"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

type CatalogVariationData struct {
	Name   string `json:"name"`
	ItemID string `json:"item_id"`
}

type CatalogCategoryData struct {
	Name string `json:"name"`
}

type CatalogPage struct {
	Objects []CatalogObject `json:"objects"`
	Cursor  string          `json:"cursor,omitempty"`
}

// ---- order search ----

type OrderSearchRequest struct {
	LocationID string
	Begin      time.Time
	End        time.Time
	States     []string
	Limit      int
	Cursor     string
}

type OrderSearchPage struct {
	Orders []PosOrder `json:"orders"`
	Cursor string     `json:"cursor,omitempty"`
}

// ---- webhook envelope ----

type WebhookEnvelope struct {
	MerchantID string      `json:"merchant_id"`
	LocationID string      `json:"location_id,omitempty"`
	Type       string      `json:"type"`
	EventID    string      `json:"event_id"`
	CreatedAt  time.Time   `json:"created_at"`
	Data       WebhookData `json:"data"`
}

type WebhookData struct {
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	Object json.RawMessage `json:"object"`
}

type OrderObject struct {
	Order PosOrder `json:"order"`
}

type PosPayment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"` // APPROVED, COMPLETED, CANCELED, FAILED
}

type PaymentObject struct {
	Payment PosPayment `json:"payment"`
}

type PosFulfillment struct {
	UID     string `json:"uid"`
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

type FulfillmentObject struct {
	Fulfillment PosFulfillment `json:"fulfillment"`
}
