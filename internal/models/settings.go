package models

// Product is one entry of the configured product list
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// AppSettings holds the project-wide progress configuration. Mutated wholesale
// via PUT; there is no per-field patch.
type AppSettings struct {
	// Ordered candidate names for the workflow/status custom field. Teams name
	// this field differently ("State", "Progress", "Status"); the resolver tries
	// candidates in order.
	CustomFieldNames []string `json:"customFieldNames"`

	GreenZoneValues  []string `json:"greenZoneValues,omitempty"`
	YellowZoneValues []string `json:"yellowZoneValues,omitempty"`
	RedZoneValues    []string `json:"redZoneValues,omitempty"`

	GreenZoneColor  string `json:"greenZoneColor,omitempty"`
	YellowZoneColor string `json:"yellowZoneColor,omitempty"`
	RedZoneColor    string `json:"redZoneColor,omitempty"`

	Products []Product `json:"products,omitempty"`
}
