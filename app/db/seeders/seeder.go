package seeders

import (
	"fmt"
	"log"

	"github.com/Rakhulsr/bigcorp-shop/app/db/fakers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"gorm.io/gorm"
)

type Options struct {
	ProductsPerCategory int
	Users               int
}

// DBSeed creates the demo category tree plus random products and customers. Categories are
// matched on slug so running it twice does not duplicate the tree.
func DBSeed(db *gorm.DB, opts Options) error {
	return db.Transaction(func(tx *gorm.DB) error {
		roots, children := fakers.CategoryFaker()

		for _, root := range roots {
			if err := tx.Where("slug = ?", root.Slug).FirstOrCreate(root).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", root.Name, err)
			}
		}

		for _, child := range children {
			child.ParentID = &child.Parent.ID
			if err := tx.Omit("Parent").Where("slug = ?", child.Slug).FirstOrCreate(child).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", child.Name, err)
			}

			for i := 0; i < opts.ProductsPerCategory; i++ {
				product := fakers.ProductFaker(child)
				if err := tx.Omit("Category").Create(product).Error; err != nil {
					return fmt.Errorf("failed to seed product: %w", err)
				}
			}
		}

		for i := 0; i < opts.Users; i++ {
			user := fakers.UserFaker()
			if err := tx.Where("username = ?", user.Username).FirstOrCreate(user).Error; err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}
			log.Printf("DBSeed: demo customer %s / %s", user.Username, fakers.DemoPassword)
		}

		var count int64
		tx.Model(&models.Product{}).Count(&count)
		log.Printf("DBSeed: %d categories, %d products in store", len(roots)+len(children), count)
		return nil
	})
}
