package render

// The three projected regions: header badge, cart drawer and checkout
// summary. Views are plain data; clients drop them into the page as is.

// HeaderView drives the header actions area.
type HeaderView struct {
	LoggedIn      bool   `json:"logged_in"`
	Username      string `json:"username,omitempty"`
	CartItemCount int    `json:"cart_item_count"`
}

// DrawerItemView is one cart line in the drawer.
type DrawerItemView struct {
	UniqueID string   `json:"unique_id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Sessions []string `json:"sessions"`
}

// DrawerView drives the slide-out cart drawer.
type DrawerView struct {
	Items        []DrawerItemView `json:"items"`
	Empty        bool             `json:"empty"`
	EmptyMessage string           `json:"empty_message,omitempty"`
	Total        string           `json:"total"`
}

// SummaryItemView is one order line on the checkout page.
type SummaryItemView struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// SummaryView drives the checkout order summary.
type SummaryView struct {
	Items           []SummaryItemView `json:"items"`
	Empty           bool              `json:"empty"`
	Total           string            `json:"total"`
	ShowPaymentForm bool              `json:"show_payment_form"`
}

// Snapshot bundles all three views so one cart change refreshes every
// region together.
type Snapshot struct {
	Header  HeaderView  `json:"header"`
	Drawer  DrawerView  `json:"drawer"`
	Summary SummaryView `json:"summary"`
}

const emptyCartMessage = "Your cart is empty."
