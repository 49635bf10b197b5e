package library

import (
	"errors"
	"fmt"
	"strings"

	"go-media-library/internal/models"

	"gorm.io/gorm"
)

// FolderService maintains the folder forest and answers structural queries.
type FolderService struct {
	db *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{db: db}
}

// CreateFolderInput carries the attributes for a new folder.
type CreateFolderInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
	SortOrder   int
	IsSystem    bool
	ParentID    *uint
	CreatedByID *uint
}

// Create adds a folder. The slug must be unique among its siblings;
// violating that returns ErrDuplicate so callers can treat creation as
// idempotent by (parent, slug).
func (s *FolderService) Create(input CreateFolderInput) (*models.Folder, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Slug) == "" {
		return nil, fmt.Errorf("%w: folder slug is required", ErrValidation)
	}

	if input.ParentID != nil {
		if _, err := s.Get(*input.ParentID); err != nil {
			return nil, err
		}
	}

	// The unique index on (parent_id, slug) does not catch NULL parents,
	// so root-level siblings are checked here as well.
	if _, err := s.GetBySlug(input.Slug, input.ParentID); err == nil {
		return nil, fmt.Errorf("%w: folder slug %q under this parent", ErrDuplicate, input.Slug)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	folder := models.Folder{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		SortOrder:   input.SortOrder,
		IsSystem:    input.IsSystem,
		ParentID:    input.ParentID,
		CreatedByID: input.CreatedByID,
	}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return &folder, nil
}

// GetOrCreate returns the folder with the given slug under parent, creating
// it from input when missing. Existing folders are returned unchanged; the
// second result reports whether a row was created.
func (s *FolderService) GetOrCreate(slug string, parentID *uint, input CreateFolderInput) (*models.Folder, bool, error) {
	folder, err := s.GetBySlug(slug, parentID)
	if err == nil {
		return folder, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	input.Slug = slug
	input.ParentID = parentID
	created, err := s.Create(input)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// Get fetches a folder by id.
func (s *FolderService) Get(id uint) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.First(&folder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &folder, nil
}

// GetBySlug fetches a folder by slug within a parent scope. A nil parent
// scopes the lookup to root-level folders.
func (s *FolderService) GetBySlug(slug string, parentID *uint) (*models.Folder, error) {
	query := s.db.Where("slug = ?", slug)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	var folder models.Folder
	if err := query.First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder slug %q", ErrNotFound, slug)
		}
		return nil, err
	}
	return &folder, nil
}

// Roots lists root-level folders ordered by sort order then name.
func (s *FolderService) Roots() ([]models.Folder, error) {
	var folders []models.Folder
	if err := s.db.Where("parent_id IS NULL").
		Order("sort_order, name").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Children lists the direct children of a folder ordered by sort order
// then name. Descendants further down are not included.
func (s *FolderService) Children(id uint) ([]models.Folder, error) {
	var folders []models.Folder
	if err := s.db.Where("parent_id = ?", id).
		Order("sort_order, name").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Breadcrumbs returns the path from the root ancestor down to the folder
// itself. A repeated ancestor means the parent chain is corrupt and is
// reported as an error rather than looping forever.
func (s *FolderService) Breadcrumbs(id uint) ([]models.Folder, error) {
	folder, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	crumbs := []models.Folder{*folder}
	seen := map[uint]bool{folder.ID: true}
	current := folder
	for current.ParentID != nil {
		parent, err := s.Get(*current.ParentID)
		if err != nil {
			return nil, err
		}
		if seen[parent.ID] {
			return nil, fmt.Errorf("cyclic parent chain at folder %d", parent.ID)
		}
		seen[parent.ID] = true
		crumbs = append([]models.Folder{*parent}, crumbs...)
		current = parent
	}
	return crumbs, nil
}

// MediaCount sums the items of all four kinds referencing the folder.
// Descendant folders are not included; callers wanting subtree totals
// recurse over Children.
func (s *FolderService) MediaCount(id uint) (int64, error) {
	var total int64
	for _, table := range []string{"images", "documents", "videos", "audio_files"} {
		var count int64
		if err := s.db.Table(table).Where("folder_id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// CanDelete reports whether the folder may be deleted: never for system
// folders, otherwise only when it holds no media and has no children.
func (s *FolderService) CanDelete(id uint) (bool, error) {
	folder, err := s.Get(id)
	if err != nil {
		return false, err
	}
	if folder.IsSystem {
		return false, nil
	}
	count, err := s.MediaCount(id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	children, err := s.Children(id)
	if err != nil {
		return false, err
	}
	return len(children) == 0, nil
}

// Delete removes a folder. Only leaf, empty, non-system folders are
// deletable; anything else returns ErrProtected.
func (s *FolderService) Delete(id uint) error {
	folder, err := s.Get(id)
	if err != nil {
		return err
	}
	ok, err := s.CanDelete(id)
	if err != nil {
		return err
	}
	if !ok {
		if folder.IsSystem {
			return fmt.Errorf("%w: %q is a system folder", ErrProtected, folder.Name)
		}
		return fmt.Errorf("%w: folder %q still has media or subfolders", ErrProtected, folder.Name)
	}
	return s.db.Delete(&models.Folder{}, id).Error
}

// Move re-parents a folder. Moving under a descendant (or under itself)
// would create a cycle and is rejected; so is a sibling slug conflict at
// the destination.
func (s *FolderService) Move(id uint, newParentID *uint) (*models.Folder, error) {
	folder, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == id {
			return nil, fmt.Errorf("%w: folder cannot be its own parent", ErrValidation)
		}
		parent, err := s.Get(*newParentID)
		if err != nil {
			return nil, err
		}
		// Walk up from the proposed parent; finding the moved folder in
		// that chain means the move would create a cycle.
		seen := map[uint]bool{}
		current := parent
		for {
			if current.ID == id {
				return nil, fmt.Errorf("%w: move would create a folder cycle", ErrValidation)
			}
			if current.ParentID == nil || seen[current.ID] {
				break
			}
			seen[current.ID] = true
			if current, err = s.Get(*current.ParentID); err != nil {
				return nil, err
			}
		}
	}

	if existing, err := s.GetBySlug(folder.Slug, newParentID); err == nil && existing.ID != id {
		return nil, fmt.Errorf("%w: folder slug %q under this parent", ErrDuplicate, folder.Slug)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.db.Model(folder).Update("parent_id", newParentID).Error; err != nil {
		return nil, err
	}
	folder.ParentID = newParentID
	return folder, nil
}

// Update renames or restyles a folder. Empty strings leave the field
// untouched; the sort order pointer distinguishes "unset" from zero.
func (s *FolderService) Update(id uint, name, description, icon, color string, sortOrder *int) (*models.Folder, error) {
	folder, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}
	if len(updates) == 0 {
		return folder, nil
	}
	if err := s.db.Model(folder).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// WithCounts fills the MediaCount field on each folder.
func (s *FolderService) WithCounts(folders []models.Folder) ([]models.Folder, error) {
	for i := range folders {
		count, err := s.MediaCount(folders[i].ID)
		if err != nil {
			return nil, err
		}
		folders[i].MediaCount = count
	}
	return folders, nil
}
