package domain

// ProductType discriminates the product shapes returned by the catalog
// backend. The values match the GraphQL __typename field.
type ProductType string

const (
	ProductTypeSimple       ProductType = "SimpleProduct"
	ProductTypeConfigurable ProductType = "ConfigurableProduct"
)

type ProductImage struct {
	URL string `json:"url"`
}

type ProductDescription struct {
	HTML string `json:"html"`
}

// Variant is one purchasable variant of a configurable product. The wrapped
// product is always a simple product.
type Variant struct {
	Product *Product `json:"product"`
}

// Product is either a simple product or a configurable product with a list
// of variants; Type tells the two apart. Variants is only populated for
// configurable products.
type Product struct {
	Type        ProductType         `json:"__typename"`
	ID          int                 `json:"id"`
	SKU         string              `json:"sku"`
	Name        string              `json:"name"`
	Description *ProductDescription `json:"description"`
	Image       *ProductImage       `json:"image"`
	Variants    []Variant           `json:"variants"`
}

// ImageURL returns the product's own image URL, or "" when it has none.
func (p *Product) ImageURL() string {
	if p == nil || p.Image == nil {
		return ""
	}
	return p.Image.URL
}
