package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ShopHandler struct {
	catalog *services.CatalogService
	render  *render.Render
}

func NewShopHandler(catalog *services.CatalogService, r *render.Render) *ShopHandler {
	return &ShopHandler{catalog: catalog, render: r}
}

func (h *ShopHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailableProducts(r.Context())
	if err != nil {
		log.Printf("Products: failed to list products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":    "All products",
		"Products": products,
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Shop", URL: "/shop/"},
		},
	})
	_ = h.render.HTML(w, http.StatusOK, "shop/products", data)
}

func (h *ShopHandler) CategoryList(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	category, products, err := h.catalog.ListProductsByCategorySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("CategoryList: failed to list category %q: %v", slug, err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":    category.Name,
		"Category": category,
		"Products": products,
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Shop", URL: "/shop/"},
			{Name: category.Name, URL: categoryURL(category)},
		},
	})
	_ = h.render.HTML(w, http.StatusOK, "shop/list_category", data)
}

func (h *ShopHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("ProductDetail: failed to get product %q: %v", slug, err)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	breadcrumbs := []breadcrumb.Breadcrumb{{Name: "Shop", URL: "/shop/"}}
	if product.Category != nil {
		var chain []*models.Category
		for c := product.Category; c != nil; c = c.Parent {
			chain = append([]*models.Category{c}, chain...)
		}
		for _, c := range chain {
			breadcrumbs = append(breadcrumbs, breadcrumb.Breadcrumb{Name: c.Name, URL: categoryURL(c)})
		}
	}
	breadcrumbs = append(breadcrumbs, breadcrumb.Breadcrumb{Name: product.Title, URL: productURL(product)})

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":       product.Title,
		"Product":     product,
		"Breadcrumbs": breadcrumbs,
	})
	_ = h.render.HTML(w, http.StatusOK, "shop/product_detail", data)
}

func categoryURL(c *models.Category) string {
	return "/shop/search/" + c.Slug + "/"
}

func productURL(p *models.Product) string {
	return "/shop/" + p.Slug + "/"
}
