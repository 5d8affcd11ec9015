package resource

import (
	"strings"

	"commerce/connector/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// PlainDescription extracts the text content from a product's HTML
// description. The backend delivers descriptions as HTML fragments; virtual
// resources expose markup-free text.
func PlainDescription(p *domain.Product) string {
	if p == nil || p.Description == nil || p.Description.HTML == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.Description.HTML))
	if err != nil {
		log.Debugf("Failed to parse description of %s: %v", p.SKU, err)
		return ""
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
