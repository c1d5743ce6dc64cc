package fakers

import (
	"strings"

	"github.com/Rakhulsr/bigcorp-shop/app/helpers"
	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/go-faker/faker/v4"
)

const DemoPassword = "password123"

// UserFaker builds an active customer that can log in with DemoPassword.
func UserFaker() *models.User {
	username := strings.ToLower(faker.Username())
	return &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  helpers.HashPassword(DemoPassword),
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Role:      models.RoleCustomer,
		IsActive:  true,
	}
}
