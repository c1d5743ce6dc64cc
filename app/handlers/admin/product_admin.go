package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/services"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/gorilla/mux"
)

var productsCrumb = breadcrumb.Breadcrumb{Name: "Products", URL: "/admin/products/"}

func (h *AdminHandler) GetProductsPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminProductPageData{}
	h.populateBaseDataForAdmin(r, &data.BasePageData, "Products", productsCrumb)

	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		log.Printf("GetProductsPage: failed to list products: %v", err)
		data.Message = "Failed to load products."
		data.MessageStatus = "error"
	}
	data.Products = products

	_ = h.render.HTML(w, http.StatusOK, "admin/products/index", data)
}

func (h *AdminHandler) renderProductForm(w http.ResponseWriter, r *http.Request, status int, form ProductForm, errs map[string]string) {
	data := &AdminProductPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	title := "Add product"
	data.FormAction = "/admin/products/add/"
	if data.IsEdit {
		title = "Change product"
		data.FormAction = "/admin/products/" + form.ID + "/edit/"
	}
	h.populateBaseDataForAdmin(r, &data.BasePageData, title, productsCrumb, breadcrumb.Breadcrumb{Name: title, URL: data.FormAction})

	categories, err := h.catalog.ListCategoriesWithPaths(r.Context())
	if err != nil {
		log.Printf("renderProductForm: failed to list categories: %v", err)
	}
	data.CategoryOptions = categories

	_ = h.render.HTML(w, status, "admin/products/form", data)
}

// readProductForm parses the multipart form and stores an uploaded image, if any.
func (h *AdminHandler) readProductForm(w http.ResponseWriter, r *http.Request) (ProductForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return ProductForm{}, err
	}

	form := ProductForm{
		CategoryID:  r.PostFormValue("category"),
		Title:       r.PostFormValue("title"),
		Brand:       r.PostFormValue("brand"),
		Description: r.PostFormValue("description"),
		Slug:        r.PostFormValue("slug"),
		Price:       r.PostFormValue("price"),
		Available:   formBool(r, "available"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
		return form, nil
	case err != nil:
		return form, err
	}
	defer file.Close()

	image, err := h.images.SaveProductImage(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		return form, err
	}
	form.Image = image
	return form, nil
}

func (form ProductForm) ImageURL() string {
	p := models.Product{Image: form.Image}
	return p.ImageURL()
}

func (form ProductForm) input() services.ProductInput {
	return services.ProductInput{
		CategoryID:  form.CategoryID,
		Title:       form.Title,
		Brand:       form.Brand,
		Description: form.Description,
		Slug:        form.Slug,
		Price:       form.Price,
		Image:       form.Image,
		Available:   form.Available,
	}
}

func (h *AdminHandler) productFormError(w http.ResponseWriter, r *http.Request, form ProductForm, err error) {
	var fieldErrs services.FieldErrors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &fieldErrs):
		h.renderProductForm(w, r, http.StatusOK, form, fieldErrs)
	case errors.As(err, &tooLarge):
		h.renderProductForm(w, r, http.StatusRequestEntityTooLarge, form, map[string]string{"image": "Image must be 10 MB or smaller."})
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
	default:
		log.Printf("productFormError: %v", err)
		helpers.RedirectWithMessage(w, r, "/admin/products/", "error", "Failed to save product.")
	}
}

func (h *AdminHandler) AddProductPage(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, http.StatusOK, ProductForm{
		Price:     models.DefaultProductPrice.StringFixed(2),
		Available: true,
	}, nil)
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	form, err := h.readProductForm(w, r)
	if err != nil {
		h.productFormError(w, r, form, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), form.input())
	if err != nil {
		h.productFormError(w, r, form, err)
		return
	}

	log.Printf("AddProductPost: product %s (%s) created", product.Title, product.ID)
	helpers.RedirectWithMessage(w, r, "/admin/products/", "success", "The product \""+product.Title+"\" was added successfully.")
}

func (h *AdminHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("EditProductPage: %v", err)
		helpers.RedirectWithMessage(w, r, "/admin/products/", "error", "Failed to load product.")
		return
	}

	h.renderProductForm(w, r, http.StatusOK, ProductForm{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Title:       product.Title,
		Brand:       product.Brand,
		Description: product.Description,
		Slug:        product.Slug,
		Price:       product.Price.StringFixed(2),
		Image:       product.Image,
		Available:   product.Available,
	}, nil)
}

func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, err := h.readProductForm(w, r)
	form.ID = id
	if err != nil {
		h.productFormError(w, r, form, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, form.input())
	if err != nil {
		h.productFormError(w, r, form, err)
		return
	}

	helpers.RedirectWithMessage(w, r, "/admin/products/", "success", "The product \""+product.Title+"\" was changed successfully.")
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("DeleteProductPost: failed to delete product %s: %v", id, err)
		helpers.RedirectWithMessage(w, r, "/admin/products/", "error", "Failed to delete product.")
		return
	}
	helpers.RedirectWithMessage(w, r, "/admin/products/", "success", "The product was deleted.")
}
