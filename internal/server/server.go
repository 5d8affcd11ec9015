package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"commerce/connector/internal/resource"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// CatalogMapper is the facade the HTTP layer serves. Implemented by
// mapper.Mapper.
type CatalogMapper interface {
	Root() string
	ResolveCategory(ctx context.Context, path string) *resource.Category
	ResolveProduct(ctx context.Context, path string) *resource.Product
	ResolveProductImage(ctx context.Context, path string) *resource.SyntheticImage
	ListCategoryChildren(ctx context.Context, parentPath string) []resource.Resource
	ListProductChildren(ctx context.Context, parentPath, sku string) []resource.Resource
	AbsoluteCategoryPath(ctx context.Context, id int) (string, bool)
}

type Server struct {
	Mapper   CatalogMapper
	Registry *prometheus.Registry
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	if s.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/catalog/resource", s.resolve)
	r.Get("/catalog/children", s.children)
	r.Get("/catalog/category-path/{id}", s.categoryPath)

	return r
}

// resolve maps a virtual path to a resource: category first, then the
// synthetic image suffix, then product.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requestedPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if category := s.Mapper.ResolveCategory(ctx, path); category != nil {
		writeJSON(w, http.StatusOK, payload(category))
		return
	}

	if strings.HasSuffix(path, "/"+resource.ImageSegment) {
		if image := s.Mapper.ResolveProductImage(ctx, path); image != nil {
			writeJSON(w, http.StatusOK, payload(image))
			return
		}
	}

	if product := s.Mapper.ResolveProduct(ctx, path); product != nil {
		writeJSON(w, http.StatusOK, payload(product))
		return
	}

	writeError(w, http.StatusNotFound, "no resource at path")
}

func (s *Server) children(w http.ResponseWriter, r *http.Request) {
	path, ok := s.requestedPath(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if path == s.Mapper.Root() || s.Mapper.ResolveCategory(ctx, path) != nil {
		writeChildren(w, s.Mapper.ListCategoryChildren(ctx, path))
		return
	}

	if product := s.Mapper.ResolveProduct(ctx, path); product != nil {
		writeChildren(w, s.Mapper.ListProductChildren(ctx, path, product.SKU()))
		return
	}

	writeError(w, http.StatusNotFound, "no resource at path")
}

func (s *Server) categoryPath(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	path, ok := s.Mapper.AbsoluteCategoryPath(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category id")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) requestedPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing path parameter")
		return "", false
	}
	if path != s.Mapper.Root() && !strings.HasPrefix(path, s.Mapper.Root()+"/") {
		log.Debugf("Path %s is outside the catalog root", path)
		writeError(w, http.StatusNotFound, "path outside catalog root")
		return "", false
	}
	return path, true
}

func writeChildren(w http.ResponseWriter, children []resource.Resource) {
	payloads := make([]resourcePayload, 0, len(children))
	for _, child := range children {
		payloads = append(payloads, payload(child))
	}
	writeJSON(w, http.StatusOK, map[string]any{"children": payloads})
}
