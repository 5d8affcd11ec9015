package mapper

import (
	"context"
	"strings"

	"commerce/connector/internal/cache"
	"commerce/connector/internal/client"
	"commerce/connector/internal/domain"
	"commerce/connector/internal/resource"

	log "github.com/sirupsen/logrus"
)

// Mapper resolves absolute virtual paths under the configured root into
// catalog resources and lists their children. Not-found is a nil result on
// every operation; gateway failures on per-entity fetches degrade to
// not-found and never escape.
type Mapper struct {
	root   string
	cache  *cache.Cache
	client client.CatalogService
}

func New(root string, catalogCache *cache.Cache, gateway client.CatalogService) *Mapper {
	return &Mapper{
		root:   strings.TrimSuffix(root, "/"),
		cache:  catalogCache,
		client: gateway,
	}
}

// Root returns the absolute virtual root path of the catalog tree.
func (m *Mapper) Root() string {
	return m.root
}

// ResolveCategory looks the path up in the snapshot's category map. Only an
// exact match resolves; there is no prefix matching here.
func (m *Mapper) ResolveCategory(ctx context.Context, path string) *resource.Category {
	snapshot := m.snapshot(ctx)
	if snapshot == nil {
		return nil
	}

	category := snapshot.Category(m.subPath(path))
	if category == nil {
		return nil
	}
	return resource.NewCategory(path, category)
}

// ResolveProduct splits the path into a category prefix and product parts,
// then fetches the base product. A second part selects a variant; the
// variant is recorded on the resource, not fetched separately.
func (m *Mapper) ResolveProduct(ctx context.Context, path string) *resource.Product {
	parts := m.productParts(ctx, path)
	if len(parts) == 0 {
		return nil
	}

	sku := parts[0]
	product, err := m.client.GetProductBySku(ctx, sku)
	if err != nil {
		log.Errorf("Error while fetching product %s: %v", sku, err)
		return nil
	}
	if product == nil {
		return nil
	}

	variantSKU := ""
	if len(parts) > 1 {
		variantSKU = parts[1]
	}
	return resource.NewProduct(path, product, variantSKU)
}

// ResolveProductImage resolves paths ending in "/image" to the synthetic
// image node of the addressed product. A configurable product without an
// image of its own falls back to the image of its first variant.
func (m *Mapper) ResolveProductImage(ctx context.Context, path string) *resource.SyntheticImage {
	suffix := "/" + resource.ImageSegment
	if !strings.HasSuffix(path, suffix) {
		return nil
	}

	productPath := strings.TrimSuffix(path, suffix)
	parts := m.productParts(ctx, productPath)
	if len(parts) == 0 {
		return nil
	}

	product, err := m.client.GetProductBySku(ctx, parts[0])
	if err != nil {
		log.Errorf("Error while fetching product %s: %v", parts[0], err)
		return nil
	}
	if product == nil {
		return nil
	}

	url := productImageURL(product)
	if url == "" {
		return nil
	}
	return resource.NewSyntheticImage(path, url)
}

// ListCategoryChildren returns the child resources of the category at
// parentPath. Child categories come from the snapshot; a category without
// child categories falls back to the products directly assigned to it.
// A nil result means the node has nothing to list.
func (m *Mapper) ListCategoryChildren(ctx context.Context, parentPath string) []resource.Resource {
	snapshot := m.snapshot(ctx)
	if snapshot == nil {
		return nil
	}

	category := snapshot.Category(m.subPath(parentPath))
	if category == nil {
		return nil
	}

	var children []resource.Resource
	for _, child := range category.Children {
		children = append(children, resource.NewCategory(m.root+"/"+child.URLPath, child))
	}

	if len(children) == 0 {
		products, err := m.client.GetCategoryProducts(ctx, category.ID)
		if err != nil {
			log.Errorf("Error while fetching products of category %s (%d): %v", parentPath, category.ID, err)
		}
		for _, product := range products {
			children = append(children, resource.NewProduct(parentPath+"/"+product.SKU, product, ""))
		}
	}

	if len(children) == 0 {
		return nil
	}
	return children
}

// ListProductChildren lists the variants of the configurable product with
// the given sku, one child per variant, with the synthetic image node first
// when an image URL can be determined. Simple products and configurable
// products without variants have no children.
func (m *Mapper) ListProductChildren(ctx context.Context, parentPath, sku string) []resource.Resource {
	product, err := m.client.GetProductBySku(ctx, sku)
	if err != nil {
		log.Errorf("Error while fetching variants of product %s: %v", sku, err)
		return nil
	}
	if product == nil || product.Type != domain.ProductTypeConfigurable || len(product.Variants) == 0 {
		return nil
	}

	children := make([]resource.Resource, 0, len(product.Variants)+1)
	imageURL := product.ImageURL()

	for _, variant := range product.Variants {
		simple := variant.Product
		if simple == nil {
			continue
		}
		children = append(children, resource.NewProduct(parentPath+"/"+simple.SKU, simple, simple.SKU))

		if imageURL == "" {
			imageURL = simple.ImageURL()
		}
	}

	if imageURL != "" {
		image := resource.NewSyntheticImage(parentPath+"/"+resource.ImageSegment, imageURL)
		children = append([]resource.Resource{image}, children...)
	}

	if len(children) == 0 {
		return nil
	}
	return children
}

// AbsoluteCategoryPath returns the absolute virtual path of the category
// with the given id.
func (m *Mapper) AbsoluteCategoryPath(ctx context.Context, id int) (string, bool) {
	snapshot := m.snapshot(ctx)
	if snapshot == nil {
		return "", false
	}

	path, ok := snapshot.PathByID(id)
	if !ok {
		return "", false
	}
	return m.root + "/" + path, true
}

// snapshot triggers lazy initialization and returns the current snapshot.
// A failed build leaves no snapshot; callers then report not-found.
func (m *Mapper) snapshot(ctx context.Context) *cache.Snapshot {
	if err := m.cache.Init(ctx); err != nil {
		log.Warnf("Catalog cache initialization failed: %v", err)
	}
	return m.cache.Snapshot()
}

func (m *Mapper) subPath(path string) string {
	if path == m.root {
		return ""
	}
	return strings.TrimPrefix(path, m.root+"/")
}

// productImageURL returns the product's image URL, falling back to the
// first variant's image for configurable products.
func productImageURL(product *domain.Product) string {
	if url := product.ImageURL(); url != "" {
		return url
	}

	switch product.Type {
	case domain.ProductTypeConfigurable:
		if len(product.Variants) > 0 {
			return product.Variants[0].Product.ImageURL()
		}
	case domain.ProductTypeSimple:
	}
	return ""
}
