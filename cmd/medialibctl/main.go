package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"go-media-library/database/migrations"
	"go-media-library/internal/config"
	"go-media-library/internal/database"
	"go-media-library/internal/library"
	"go-media-library/internal/processing"
	"go-media-library/internal/seed"
)

func main() {
	app := &cli.App{
		Name:  "medialibctl",
		Usage: "media library maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update the database schema",
				Action: func(c *cli.Context) error {
					db, err := connect()
					if err != nil {
						return err
					}
					if err := migrations.Migrate(db); err != nil {
						return err
					}
					fmt.Println("Migrations applied")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "create the stock folders, categories and predefined tags",
				Action: func(c *cli.Context) error {
					db, err := connect()
					if err != nil {
						return err
					}
					if err := seed.All(db); err != nil {
						return err
					}
					fmt.Println("Seed data in place")
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "admin email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "admin password", Required: true},
				},
				Action: func(c *cli.Context) error {
					db, err := connect()
					if err != nil {
						return err
					}
					user, created, err := seed.EnsureAdmin(db, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}
					if created {
						fmt.Printf("Created admin account %s\n", user.Email)
					} else {
						fmt.Printf("Account %s already exists, left unchanged\n", user.Email)
					}
					return nil
				},
			},
			{
				Name:  "transcode",
				Usage: "re-encode a media file (video to H.264/AAC MP4, audio to MP3)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Usage: "source file path", Required: true},
					&cli.StringFlag{Name: "output", Usage: "destination file path", Required: true},
					&cli.BoolFlag{Name: "audio", Usage: "audio-only transcode"},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("audio") {
						return processing.TranscodeAudio(c.String("input"), c.String("output"))
					}
					return processing.TranscodeVideo(c.String("input"), c.String("output"))
				},
			},
			{
				Name:  "cleanup-expired",
				Usage: "delete documents past their expiry date",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Usage: "list candidates without deleting anything"},
				},
				Action: func(c *cli.Context) error {
					db, err := connect()
					if err != nil {
						return err
					}
					dryRun := c.Bool("dry-run")
					docs, err := library.NewMediaService(db).CleanupExpiredDocuments(time.Now(), dryRun)
					if err != nil {
						return err
					}
					if len(docs) == 0 {
						fmt.Println("No expired documents")
						return nil
					}
					for _, doc := range docs {
						expiry := ""
						if doc.ExpiryDate != nil {
							expiry = doc.ExpiryDate.Format("2006-01-02")
						}
						if dryRun {
							fmt.Printf("Would delete: %s (%s, expired %s)\n", doc.Title, doc.ID, expiry)
						} else {
							fmt.Printf("Deleted: %s (%s, expired %s)\n", doc.Title, doc.ID, expiry)
						}
					}
					fmt.Printf("%d document(s) affected\n", len(docs))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := database.Initialize(cfg); err != nil {
		return nil, err
	}
	return database.GetDB(), nil
}
