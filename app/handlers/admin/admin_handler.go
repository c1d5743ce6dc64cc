package admin

import (
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/models/other"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/unrolled/render"
)

const maxUploadSize = services.MaxProductImageSize

type AdminHandler struct {
	catalog *services.CatalogService
	images  services.ImageStore
	render  *render.Render
}

func NewAdminHandler(catalog *services.CatalogService, images services.ImageStore, r *render.Render) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		images:  images,
		render:  r,
	}
}

type AdminPageData struct {
	other.BasePageData
	CategoryCount int
	ProductCount  int
}

type AdminCategoryPageData struct {
	other.BasePageData
	CategoryList  []models.Category
	ParentOptions []models.Category
	Form          CategoryForm
	Errors        map[string]string
	FormAction    string
	IsEdit        bool
}

type CategoryForm struct {
	ID       string
	Name     string
	Slug     string
	ParentID string
}

type AdminProductPageData struct {
	other.BasePageData
	Products        []models.Product
	CategoryOptions []models.Category
	Form            ProductForm
	Errors          map[string]string
	FormAction      string
	IsEdit          bool
}

type ProductForm struct {
	ID          string
	CategoryID  string
	Title       string
	Brand       string
	Description string
	Slug        string
	Price       string
	Image       string
	Available   bool
}

func (h *AdminHandler) populateBaseDataForAdmin(r *http.Request, base *other.BasePageData, title string, crumbs ...breadcrumb.Breadcrumb) {
	baseDataMap := helpers.GetBaseData(r, nil)

	if user, ok := baseDataMap["User"].(*other.UserForTemplate); ok {
		base.User = user
		base.UserID = user.ID
		base.IsLoggedIn = true
		base.IsAdmin = user.Role == models.RoleAdmin
	}
	if csrfField, ok := baseDataMap["CSRFField"].(template.HTML); ok {
		base.CSRFField = csrfField
	}
	if cartCount, ok := baseDataMap["CartCount"].(int); ok {
		base.CartCount = cartCount
	}
	if categories, ok := baseDataMap["Categories"].([]models.Category); ok {
		base.Categories = categories
	}
	if query, ok := baseDataMap["Query"].(url.Values); ok {
		base.Query = query
	}
	if base.Message == "" {
		base.Message, _ = baseDataMap["Message"].(string)
		base.MessageStatus, _ = baseDataMap["MessageStatus"].(string)
	}

	base.Title = title
	base.IsAdminPage = true
	base.CurrentPath = r.URL.Path
	base.Breadcrumbs = append([]breadcrumb.Breadcrumb{{Name: "Admin", URL: "/admin/"}}, crumbs...)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &AdminPageData{}
	h.populateBaseDataForAdmin(r, &data.BasePageData, "Site administration")

	categories, err := h.catalog.ListCategoriesWithPaths(r.Context())
	if err != nil {
		log.Printf("Dashboard: failed to count categories: %v", err)
	}
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		log.Printf("Dashboard: failed to count products: %v", err)
	}
	data.CategoryCount = len(categories)
	data.ProductCount = len(products)

	_ = h.render.HTML(w, http.StatusOK, "admin/dashboard", data)
}

func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(r.PostFormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
