package model

// PlaceholderImage is used when a product carries no image of its own.
const PlaceholderImage = "https://via.placeholder.com/150"

// LineItem is one row in the cart: a quantity of one product from one
// catalog source. Title, price and image are captured at add-time and are
// not refreshed from the catalog afterward. The pair (id, source) is the
// unique key; quantity is always >= 1. A quantity that would drop below 1
// removes the row instead.
type LineItem struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Source   string  `json:"source"`
}

// Matches reports whether the line item is keyed by (id, source).
func (li LineItem) Matches(id int64, source string) bool {
	return li.ID == id && li.Source == source
}

// NewLineItem builds a line item snapshot from a catalog product.
func NewLineItem(p Product, quantity int) LineItem {
	image := p.ImageURL()
	if image == "" {
		image = PlaceholderImage
	}
	source := p.Source
	if source == "" {
		source = SourceUnknown
	}
	return LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    image,
		Quantity: quantity,
		Source:   source,
	}
}

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
)

// Notification is the ephemeral advisory emitted by cart mutations. At most
// one is current; a new one supersedes an unexpired previous one.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}
