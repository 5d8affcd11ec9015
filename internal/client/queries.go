package client

import (
	"fmt"
	"strconv"
)

const (
	categoryFields = "id name url_path position"

	productFields = "__typename id sku name description { html } image { url }"

	variantFields = "... on ConfigurableProduct { variants { product { __typename id sku name image { url } } } }"
)

// categoryTreeQuery builds a categories query with an explicit children
// selection nested to the given depth. GraphQL has no recursive queries, so
// the recursion of the tree is unrolled into the query text.
func categoryTreeQuery(rootID, depth int) string {
	selection := categoryFields
	for i := 0; i < depth; i++ {
		selection = categoryFields + " children { " + selection + " }"
	}
	return fmt.Sprintf("{ category(id: %d) { %s } }", rootID, selection)
}

func productBySkuQuery(sku string) string {
	return fmt.Sprintf("{ products(filter: { sku: { eq: %q } }) { items { %s %s } } }",
		sku, productFields, variantFields)
}

func categoryProductsQuery(categoryID int) string {
	return fmt.Sprintf("{ products(filter: { category_id: { eq: %q } }) { items { %s %s } } }",
		strconv.Itoa(categoryID), productFields, variantFields)
}
