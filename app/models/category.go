package models

import (
	"strings"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/utils/slugify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CategoryPathSeparator = " -> "

type Category struct {
	ID        string     `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name      string     `gorm:"size:255;not null;index"`
	ParentID  *string    `gorm:"size:36;index"`
	Parent    *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Children  []Category `gorm:"foreignKey:ParentID"`
	Slug      string     `gorm:"size:255;not null;uniqueIndex"`
	Products  []Product  `gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Slug == "" {
		c.Slug = slugify.Category(c.Name)
	}
	return
}

// FullPath joins the names from the root down to c. It follows the Parent pointers that are
// already loaded, so callers wanting the whole chain load it first (see LoadAncestors).
func (c *Category) FullPath() string {
	return strings.Join(c.PathNames(), CategoryPathSeparator)
}

func (c *Category) PathNames() []string {
	var names []string
	for k := c; k != nil; k = k.Parent {
		names = append(names, k.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

func (c *Category) String() string {
	return c.FullPath()
}
