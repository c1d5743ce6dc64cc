package helpers

import (
	"net/http"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/models/other"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
	"github.com/gorilla/csrf"
)

const SiteTitle = "BigCorp"

func GetBaseData(r *http.Request, pageSpecificData map[string]interface{}) map[string]interface{} {
	if pageSpecificData == nil {
		pageSpecificData = make(map[string]interface{})
	}

	defaults := map[string]interface{}{
		"Title":       SiteTitle,
		"CartCount":   0,
		"IsLoggedIn":  false,
		"User":        nil,
		"UserID":      "",
		"Breadcrumbs": []breadcrumb.Breadcrumb{},
		"IsAuthPage":  false,
		"IsAdminPage": false,
		"Query":       r.URL.Query(),
		"CurrentPath": r.URL.Path,
		"Categories":  []models.Category{},
	}
	for k, v := range defaults {
		if _, exists := pageSpecificData[k]; !exists {
			pageSpecificData[k] = v
		}
	}

	pageSpecificData["CSRFField"] = csrf.TemplateField(r)

	if count, ok := r.Context().Value(CartCountKey).(int); ok {
		pageSpecificData["CartCount"] = count
	}

	if categories, ok := r.Context().Value(ContextKeyCategories).([]models.Category); ok {
		pageSpecificData["Categories"] = categories
	}

	if user, ok := r.Context().Value(ContextKeyUser).(*models.User); ok && user != nil {
		pageSpecificData["User"] = UserForTemplate(user)
		pageSpecificData["IsLoggedIn"] = true
		pageSpecificData["UserID"] = user.ID
		pageSpecificData["IsAdmin"] = user.IsAdmin()
	}

	pageSpecificData["MessageStatus"] = r.URL.Query().Get("status")
	pageSpecificData["Message"] = r.URL.Query().Get("message")

	return pageSpecificData
}

func UserForTemplate(user *models.User) *other.UserForTemplate {
	return &other.UserForTemplate{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}

func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(ContextKeyUser).(*models.User)
	return user
}

func CurrentCartID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyCartID).(string)
	return id
}
