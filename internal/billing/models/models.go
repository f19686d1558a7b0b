// Package models defines the core domain models for the billing service:
// Company, Quotation, and their supporting types.
package models

import (
	"time"
)

// Status represents the lifecycle state of a quotation.
type Status string

const (
	// StatusPending is the state every new quotation starts in.
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is one of the accepted status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Mode selects how a quotation number is assigned.
type Mode string

const (
	// ModeManual takes the quotation number supplied by the caller.
	ModeManual Mode = "manual"
	// ModeAutomatic assigns the next number from the ledger sequence.
	ModeAutomatic Mode = "automatic"
)

// Company is a party (customer or vendor) that a quotation is billed to.
type Company struct {
	// ID is the unique identifier for the company.
	ID int64 `json:"id"`
	// Name is the company's name. Required; unique case-insensitively.
	Name string `json:"name"`
	// Phone is the company's phone number. Required; unique.
	Phone string `json:"phone"`
	// Email is an optional contact address.
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address,omitempty"`
	BillingAddress  string    `json:"billingAddress,omitempty"`
	ShippingAddress string    `json:"shippingAddress,omitempty"`
	GSTIN           string    `json:"gstin,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID              int64
	Name            *string
	Phone           *string
	Email           *string
	Address         *string
	BillingAddress  *string
	ShippingAddress *string
	GSTIN           *string
}

// LineItem is one row of a quotation.
type LineItem struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	// Discount is a percentage in [0,100].
	Discount float64 `json:"discount"`
	// TaxRate is a percentage in [0,100].
	TaxRate float64 `json:"taxRate"`
	// Amount is derived: round2(quantity*price*(1-discount/100)*(1+taxRate/100)).
	Amount float64 `json:"amount"`
}

// Quotation is a priced offer issued to a party.
type Quotation struct {
	ID              int64      `json:"id"`
	QuotationNumber string     `json:"quotationNumber"`
	// Date is an ISO-8601 date string (YYYY-MM-DD).
	Date      string     `json:"date"`
	PartyName string     `json:"partyName"`
	Status    Status     `json:"status"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuotationDraft is the input for creating a quotation. Amounts and the
// total are recomputed server-side regardless of what the caller sends.
type QuotationDraft struct {
	Mode            Mode       `json:"mode"`
	QuotationNumber string     `json:"quotationNumber"`
	Date            string     `json:"date"`
	PartyName       string     `json:"partyName"`
	Items           []LineItem `json:"items"`
}
