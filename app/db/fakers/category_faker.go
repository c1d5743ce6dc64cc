package fakers

import (
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/Rakhulsr/bigcorp-shop/app/utils/slugify"
)

// CategoryTree maps a root category name to its children.
var CategoryTree = map[string][]string{
	"Tools":       {"Hammers", "Screwdrivers", "Power Tools"},
	"Garden":      {"Seeds", "Hoses"},
	"Electronics": {"Laptops", "Phones", "Headphones"},
}

// CategoryFaker builds roots and children with slugs already set, so reruns can match on slug.
func CategoryFaker() (roots []*models.Category, children []*models.Category) {
	for rootName, childNames := range CategoryTree {
		root := &models.Category{Name: rootName, Slug: slugify.Make(rootName)}
		roots = append(roots, root)
		for _, name := range childNames {
			children = append(children, &models.Category{
				Name:   name,
				Slug:   slugify.Make(rootName + " " + name),
				Parent: root,
			})
		}
	}
	return roots, children
}
