package other

import (
	"html/template"
	"net/url"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/breadcrumb"
)

type UserForTemplate struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// BasePageData is embedded by the typed admin page structs.
type BasePageData struct {
	Title         string
	IsLoggedIn    bool
	IsAdmin       bool
	User          *UserForTemplate
	UserID        string
	CartCount     int
	CSRFField     template.HTML
	Message       string
	MessageStatus string
	Query         url.Values
	Breadcrumbs   []breadcrumb.Breadcrumb
	Categories    []models.Category
	IsAuthPage    bool
	IsAdminPage   bool
	CurrentPath   string
}
