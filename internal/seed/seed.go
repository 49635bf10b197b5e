package seed

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"gorm.io/gorm"
)

// Folders creates the stock folder hierarchy. Existing folders are left
// untouched, so running it again is a no-op.
func Folders(db *gorm.DB) error {
	folders := library.NewFolderService(db)

	roots := []library.CreateFolderInput{
		{Name: "Banners", Slug: "banners", Description: "Marketing banners and promotional images", Icon: "fa-flag", Color: "#f5576c", SortOrder: 1},
		{Name: "Products", Slug: "products", Description: "Product images and media", Icon: "fa-box", Color: "#4facfe", SortOrder: 2},
		{Name: "Campaigns", Slug: "campaigns", Description: "Marketing campaign assets", Icon: "fa-bullhorn", Color: "#43e97b", SortOrder: 3},
		{Name: "Social Media", Slug: "social-media", Description: "Social media posts and graphics", Icon: "fa-share-alt", Color: "#764ba2", SortOrder: 4},
		{Name: "Logos", Slug: "logos", Description: "Company and brand logos", Icon: "fa-copyright", Color: "#f093fb", SortOrder: 5, IsSystem: true},
		{Name: "Videos", Slug: "videos", Description: "Video content and recordings", Icon: "fa-video", Color: "#4facfe", SortOrder: 6},
		{Name: "Audio", Slug: "audio", Description: "Audio files and music", Icon: "fa-music", Color: "#43e97b", SortOrder: 7},
		{Name: "Documents", Slug: "documents", Description: "PDFs and other documents", Icon: "fa-file-alt", Color: "#f5576c", SortOrder: 8},
	}
	for _, input := range roots {
		if _, created, err := folders.GetOrCreate(input.Slug, nil, input); err != nil {
			return fmt.Errorf("failed to seed folder %q: %w", input.Slug, err)
		} else if created {
			log.Printf("Created folder: %s", input.Name)
		}
	}

	campaigns, err := folders.GetBySlug("campaigns", nil)
	if err != nil {
		return err
	}
	launch := library.CreateFolderInput{
		Name:        "2024 Launch",
		Slug:        "2024-launch",
		Description: "Assets for 2024 product launch campaign",
		Icon:        "fa-rocket",
		Color:       "#667eea",
		SortOrder:   1,
		ParentID:    &campaigns.ID,
	}
	if _, created, err := folders.GetOrCreate(launch.Slug, &campaigns.ID, launch); err != nil {
		return fmt.Errorf("failed to seed folder %q: %w", launch.Slug, err)
	} else if created {
		log.Printf("Created subfolder: Campaigns / 2024 Launch")
	}

	return nil
}

// Taxonomy creates the stock categories and predefined tags. Existing
// rows keep their values.
func Taxonomy(db *gorm.DB) error {
	taxonomy := library.NewTaxonomyService(db)

	categories := []models.Category{
		{Name: "Graphics", Slug: "graphics", Description: "Graphic designs, illustrations, and visual content", CategoryType: "graphics", ApplicableTo: "image", Icon: "fa-palette", Color: "#667eea", SortOrder: 1},
		{Name: "Photos", Slug: "photos", Description: "Photography and photo content", CategoryType: "photos", ApplicableTo: "image", Icon: "fa-camera", Color: "#f5576c", SortOrder: 2},
		{Name: "Icons", Slug: "icons", Description: "Icons and small graphics", CategoryType: "icons", ApplicableTo: "image", Icon: "fa-icons", Color: "#4facfe", SortOrder: 3},
		{Name: "Logos", Slug: "logos", Description: "Brand logos and identity", CategoryType: "logos", ApplicableTo: "image", Icon: "fa-trademark", Color: "#43e97b", SortOrder: 4},
		{Name: "Banners", Slug: "banners", Description: "Banner images and headers", CategoryType: "banners", ApplicableTo: "image", Icon: "fa-rectangle-ad", Color: "#fa709a", SortOrder: 5},
		{Name: "Videos", Slug: "videos", Description: "Video content", CategoryType: "videos", ApplicableTo: "video", Icon: "fa-video", Color: "#30cfd0", SortOrder: 6},
		{Name: "Music", Slug: "music", Description: "Music and songs", CategoryType: "music", ApplicableTo: "audio", Icon: "fa-music", Color: "#a8edea", SortOrder: 7},
		{Name: "Sound Effects", Slug: "sound-effects", Description: "Sound effects and audio clips", CategoryType: "sfx", ApplicableTo: "audio", Icon: "fa-volume-up", Color: "#fed6e3", SortOrder: 8},
		{Name: "Documents", Slug: "documents", Description: "PDF and document files", CategoryType: "docs", ApplicableTo: "document", Icon: "fa-file-alt", Color: "#c471f5", SortOrder: 9},
	}
	for _, category := range categories {
		if _, created, err := taxonomy.GetOrCreateCategory(category.Slug, category); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", category.Slug, err)
		} else if created {
			log.Printf("Created category: %s", category.Name)
		}
	}

	tags := []models.PredefinedTag{
		// Usage type.
		{Name: "hero-image", Slug: "hero-image", TagType: "usage", Color: "#667eea", Icon: "fa-star", SortOrder: 1},
		{Name: "promo-video", Slug: "promo-video", TagType: "usage", Color: "#f5576c", Icon: "fa-video", SortOrder: 2},
		{Name: "logo", Slug: "logo", TagType: "usage", Color: "#4facfe", Icon: "fa-trademark", SortOrder: 3},
		{Name: "banner", Slug: "banner", TagType: "usage", Color: "#43e97b", Icon: "fa-rectangle-ad", SortOrder: 4},
		{Name: "icon", Slug: "icon", TagType: "usage", Color: "#fa709a", Icon: "fa-icons", SortOrder: 5},
		{Name: "thumbnail", Slug: "thumbnail", TagType: "usage", Color: "#30cfd0", Icon: "fa-image", SortOrder: 6},
		// Style.
		{Name: "modern", Slug: "modern", TagType: "style", Color: "#667eea", SortOrder: 10},
		{Name: "vintage", Slug: "vintage", TagType: "style", Color: "#f5576c", SortOrder: 11},
		{Name: "minimalist", Slug: "minimalist", TagType: "style", Color: "#4facfe", SortOrder: 12},
		{Name: "colorful", Slug: "colorful", TagType: "style", Color: "#43e97b", SortOrder: 13},
		// Quality.
		{Name: "high-resolution", Slug: "high-resolution", TagType: "quality", Color: "#28a745", SortOrder: 20},
		{Name: "hd", Slug: "hd", TagType: "quality", Color: "#28a745", SortOrder: 21},
		{Name: "4k", Slug: "4k", TagType: "quality", Color: "#28a745", SortOrder: 22},
		// Status.
		{Name: "approved", Slug: "approved", TagType: "status", Color: "#28a745", Icon: "fa-check", SortOrder: 30},
		{Name: "draft", Slug: "draft", TagType: "status", Color: "#ffc107", Icon: "fa-pencil", SortOrder: 31},
		{Name: "archived", Slug: "archived", TagType: "status", Color: "#6c757d", Icon: "fa-archive", SortOrder: 32},
		// Purpose.
		{Name: "marketing", Slug: "marketing", TagType: "purpose", Color: "#f5576c", SortOrder: 40},
		{Name: "social-media", Slug: "social-media", TagType: "purpose", Color: "#4facfe", SortOrder: 41},
		{Name: "website", Slug: "website", TagType: "purpose", Color: "#667eea", SortOrder: 42},
		{Name: "print", Slug: "print", TagType: "purpose", Color: "#43e97b", SortOrder: 43},
	}
	for _, tag := range tags {
		tag.IsActive = true
		if _, created, err := taxonomy.GetOrCreateTag(tag.Slug, tag); err != nil {
			return fmt.Errorf("failed to seed tag %q: %w", tag.Slug, err)
		} else if created {
			log.Printf("Created predefined tag: %s", tag.Name)
		}
	}

	return nil
}

// All seeds folders and taxonomy in one call.
func All(db *gorm.DB) error {
	if err := Folders(db); err != nil {
		return err
	}
	return Taxonomy(db)
}

// EnsureAdmin creates an admin account with the given credentials when no
// user holds that email yet. Both values must be supplied explicitly;
// there are no fallback credentials.
func EnsureAdmin(db *gorm.DB, email, password string) (*models.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, false, fmt.Errorf("%w: admin email and password are required", library.ErrValidation)
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user := models.User{Email: email, Name: "Administrator", IsAdmin: true}
	if err := user.SetPassword(password); err != nil {
		return nil, false, err
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
