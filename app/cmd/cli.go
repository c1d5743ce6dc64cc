package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Rakhulsr/bigcorp-shop/app/configs"
	"github.com/Rakhulsr/bigcorp-shop/app/db/seeders"
	"github.com/Rakhulsr/bigcorp-shop/app/models/migrations"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Name:  "bigcorp",
		Usage: "BigCorp shop server and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the web server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(configs.LoadENV)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(configs.LoadENV)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the database with a demo category tree, products and customers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "products", Value: 5, Usage: "products per category"},
					&cli.IntFlag{Name: "users", Value: 3, Usage: "demo customers"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(configs.LoadENV)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					opts := seeders.Options{
						ProductsPerCategory: int(c.Int("products")),
						Users:               int(c.Int("users")),
					}
					if err := seeders.DBSeed(db, opts); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create an active staff account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(configs.LoadENV)
					if err != nil {
						return err
					}
					svc := newServices(db, configs.LoadENV, nil)
					user, err := svc.account.CreateAdmin(ctx, c.String("username"), c.String("email"), c.String("password"))
					if err != nil {
						return fmt.Errorf("failed to create admin: %w", err)
					}
					log.Printf("✅ Admin %s (%s) created", user.Username, user.ID)
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session, CSRF and token keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(".env.new_keys"); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Copy the keys from .env.new_keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
