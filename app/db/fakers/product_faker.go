package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var brands = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli"}

func ProductFaker(category *models.Category) *models.Product {
	title := strings.TrimSuffix(faker.Sentence(), ".")
	if len(title) > 250 {
		title = title[:250]
	}

	return &models.Product{
		CategoryID:  category.ID,
		Title:       title,
		Brand:       brands[rand.Intn(len(brands))],
		Description: faker.Paragraph(),
		Slug:        slug.Make(title),
		Price:       fakePrice(),
		Available:   rand.Intn(5) != 0,
	}
}

func fakePrice() decimal.Decimal {
	cents := rand.Int63n(99999) + 100
	return decimal.New(cents, -2)
}
