package renderer

import (
	"html/template"
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/utils/format"
	"github.com/unrolled/render"
)

func New(directory string, development bool) *render.Render {
	return render.New(render.Options{
		Directory:     directory,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: development,
		Funcs: []template.FuncMap{
			{
				"formatPrice": format.Money,
				"add":         func(a, b int) int { return a + b },
				"sub":         func(a, b int) int { return a - b },
				"until": func(count int) []int {
					items := make([]int, count)
					for i := 0; i < count; i++ {
						items[i] = i
					}
					return items
				},
				"truncate": func(s string, n int) string {
					r := []rune(s)
					if len(r) <= n {
						return s
					}
					return strings.TrimSpace(string(r[:n])) + "…"
				},
			},
		},
	})
}
