package resource

import (
	"commerce/connector/internal/domain"
)

// Type identifies the kind of virtual resource a node represents.
type Type string

const (
	TypeCategory Type = "commerce/category"
	TypeProduct  Type = "commerce/product"
	TypeImage    Type = "commerce/image"
)

// ImageSegment is the fixed trailing path segment of synthetic image nodes.
const ImageSegment = "image"

// Resource is one node of the virtual catalog tree. Values are created
// fresh per resolution call and never mutated afterwards.
type Resource interface {
	Path() string
	Type() Type
	Properties() map[string]any
}

// Category wraps a category node of the current snapshot.
type Category struct {
	path string
	node *domain.CategoryTree
}

func NewCategory(path string, node *domain.CategoryTree) *Category {
	return &Category{path: path, node: node}
}

func (c *Category) Path() string { return c.path }

func (c *Category) Type() Type { return TypeCategory }

func (c *Category) Node() *domain.CategoryTree { return c.node }

func (c *Category) Properties() map[string]any {
	return map[string]any{
		"cifId":   c.node.ID,
		"title":   c.node.Name,
		"urlPath": c.node.URLPath,
	}
}

// Product wraps a product fetched from the gateway. VariantSKU is set when
// the path selected one variant of a configurable product; the wrapped
// product is still the base product in that case.
type Product struct {
	path       string
	product    *domain.Product
	variantSKU string
}

func NewProduct(path string, product *domain.Product, variantSKU string) *Product {
	return &Product{path: path, product: product, variantSKU: variantSKU}
}

func (p *Product) Path() string { return p.path }

func (p *Product) Type() Type { return TypeProduct }

func (p *Product) Product() *domain.Product { return p.product }

func (p *Product) SKU() string { return p.product.SKU }

func (p *Product) IsVariant() bool { return p.variantSKU != "" }

func (p *Product) VariantSKU() string { return p.variantSKU }

func (p *Product) Properties() map[string]any {
	props := map[string]any{
		"sku":   p.product.SKU,
		"title": p.product.Name,
	}
	if p.variantSKU != "" {
		props["variantSku"] = p.variantSKU
	}
	if url := p.product.ImageURL(); url != "" {
		props["imageUrl"] = url
	}
	if text := PlainDescription(p.product); text != "" {
		props["description"] = text
	}
	return props
}

// SyntheticImage is the virtual node at productPath + "/image". It carries
// the resolved image URL and backs no real catalog entity.
type SyntheticImage struct {
	path string
	url  string
}

func NewSyntheticImage(path, url string) *SyntheticImage {
	return &SyntheticImage{path: path, url: url}
}

func (s *SyntheticImage) Path() string { return s.path }

func (s *SyntheticImage) Type() Type { return TypeImage }

func (s *SyntheticImage) URL() string { return s.url }

func (s *SyntheticImage) Properties() map[string]any {
	return map[string]any{"imageUrl": s.url}
}
