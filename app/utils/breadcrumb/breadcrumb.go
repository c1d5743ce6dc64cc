package breadcrumb

type Breadcrumb struct {
	Name string
	URL  string
}
