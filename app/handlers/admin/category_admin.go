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

var categoriesCrumb = breadcrumb.Breadcrumb{Name: "Categories", URL: "/admin/categories/"}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	data := &AdminCategoryPageData{}
	h.populateBaseDataForAdmin(r, &data.BasePageData, "Categories", categoriesCrumb)

	categories, err := h.catalog.ListCategoriesWithPaths(r.Context())
	if err != nil {
		log.Printf("GetCategoriesPage: failed to list categories: %v", err)
		data.Message = "Failed to load categories."
		data.MessageStatus = "error"
	}
	data.CategoryList = categories

	_ = h.render.HTML(w, http.StatusOK, "admin/categories/index", data)
}

// renderCategoryForm shows the add/edit form. The category being edited and everything below it
// are left out of the parent choices.
func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, status int, form CategoryForm, errs map[string]string) {
	data := &AdminCategoryPageData{Form: form, Errors: errs, IsEdit: form.ID != ""}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	title := "Add category"
	data.FormAction = "/admin/categories/add/"
	if data.IsEdit {
		title = "Change category"
		data.FormAction = "/admin/categories/" + form.ID + "/edit/"
	}
	h.populateBaseDataForAdmin(r, &data.BasePageData, title, categoriesCrumb, breadcrumb.Breadcrumb{Name: title, URL: data.FormAction})

	all, err := h.catalog.ListCategoriesWithPaths(r.Context())
	if err != nil {
		log.Printf("renderCategoryForm: failed to list categories: %v", err)
	}
	excluded := map[string]bool{}
	if data.IsEdit {
		excluded[form.ID] = true
		for changed := true; changed; {
			changed = false
			for _, c := range all {
				if c.ParentID != nil && excluded[*c.ParentID] && !excluded[c.ID] {
					excluded[c.ID] = true
					changed = true
				}
			}
		}
	}
	for _, c := range all {
		if !excluded[c.ID] {
			data.ParentOptions = append(data.ParentOptions, c)
		}
	}

	_ = h.render.HTML(w, status, "admin/categories/form", data)
}

func categoryFormFromRequest(r *http.Request) CategoryForm {
	return CategoryForm{
		Name:     r.PostFormValue("name"),
		Slug:     r.PostFormValue("slug"),
		ParentID: r.PostFormValue("parent"),
	}
}

func (h *AdminHandler) categoryFormError(w http.ResponseWriter, r *http.Request, form CategoryForm, err error) {
	var fieldErrs services.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		h.renderCategoryForm(w, r, http.StatusOK, form, fieldErrs)
	case errors.Is(err, services.ErrUniquenessViolation):
		h.renderCategoryForm(w, r, http.StatusOK, form, map[string]string{"slug": "Category with this Slug already exists."})
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
	default:
		log.Printf("categoryFormError: %v", err)
		helpers.RedirectWithMessage(w, r, "/admin/categories/", "error", "Failed to save category.")
	}
}

func (h *AdminHandler) AddCategoryPage(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, http.StatusOK, CategoryForm{}, nil)
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/categories/add/", "error", "Could not read the form.")
		return
	}
	form := categoryFormFromRequest(r)

	category, err := h.catalog.CreateCategory(r.Context(), services.CategoryInput{
		Name:     form.Name,
		Slug:     form.Slug,
		ParentID: form.ParentID,
	})
	if err != nil {
		h.categoryFormError(w, r, form, err)
		return
	}

	log.Printf("AddCategoryPost: category %s (%s) created", category.Name, category.ID)
	helpers.RedirectWithMessage(w, r, "/admin/categories/", "success", "The category \""+category.Name+"\" was added successfully.")
}

func (h *AdminHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("EditCategoryPage: %v", err)
		helpers.RedirectWithMessage(w, r, "/admin/categories/", "error", "Failed to load category.")
		return
	}

	h.renderCategoryForm(w, r, http.StatusOK, categoryFormFrom(category), nil)
}

func categoryFormFrom(c *models.Category) CategoryForm {
	form := CategoryForm{ID: c.ID, Name: c.Name, Slug: c.Slug}
	if c.ParentID != nil {
		form.ParentID = *c.ParentID
	}
	return form
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := r.ParseForm(); err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/categories/"+id+"/edit/", "error", "Could not read the form.")
		return
	}
	form := categoryFormFromRequest(r)
	form.ID = id

	category, err := h.catalog.UpdateCategory(r.Context(), id, services.CategoryInput{
		Name:     form.Name,
		Slug:     form.Slug,
		ParentID: form.ParentID,
	})
	if err != nil {
		h.categoryFormError(w, r, form, err)
		return
	}

	helpers.RedirectWithMessage(w, r, "/admin/categories/", "success", "The category \""+category.Name+"\" was changed successfully.")
}

func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("DeleteCategoryPost: failed to delete category %s: %v", id, err)
		helpers.RedirectWithMessage(w, r, "/admin/categories/", "error", "Failed to delete category.")
		return
	}

	log.Printf("DeleteCategoryPost: category %s and its subtree deleted", id)
	helpers.RedirectWithMessage(w, r, "/admin/categories/", "success", "The category and everything below it were deleted.")
}
