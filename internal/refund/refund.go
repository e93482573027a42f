package refund

// Category is the expense category of a refund request
type Category string

const (
	CategoryFood      Category = "Alimentação"
	CategoryLodging   Category = "Hospedagem"
	CategoryTransport Category = "Transporte"
	CategoryServices  Category = "Serviços"
	CategoryOther     Category = "Outros"
)

var categories = []Category{
	CategoryFood,
	CategoryLodging,
	CategoryTransport,
	CategoryServices,
	CategoryOther,
}

// Categories returns the selectable categories in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Known reports whether c is one of the selectable categories.
// Records loaded from a remote endpoint may carry any other value.
func (c Category) Known() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Icon returns the icon name shown next to a refund of this category
func (c Category) Icon() string {
	switch c {
	case CategoryFood:
		return "restaurant"
	case CategoryLodging:
		return "bed"
	case CategoryTransport:
		return "car"
	case CategoryServices:
		return "tools"
	default:
		return "clipboard"
	}
}

// Refund represents a reimbursement request
type Refund struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Value    string   `json:"value"` // canonical decimal, "." separator
	FileName string   `json:"fileName"`
	FileURI  string   `json:"fileUri"`
}

// DisplayValue returns the value formatted for lists, e.g. "R$ 45,00"
func (r Refund) DisplayValue() string {
	return "R$ " + FormatValue(r.Value)
}
