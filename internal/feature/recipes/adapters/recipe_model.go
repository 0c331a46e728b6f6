package adapters

import (
	"time"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/recipes/domain/entity"
)

// RecipeModel is the GORM model for the recipes table.
// Deleting a user cascades to their recipes.
type RecipeModel struct {
	ID                uint   `gorm:"primaryKey"`
	Title             string `gorm:"size:100;not null"`
	Ingredients       string `gorm:"type:text;not null"`
	Instructions      string `gorm:"type:text;not null;check:length(instructions) >= 50"`
	MinutesToComplete int
	UserID            uint             `gorm:"not null;index"`
	User              *authentity.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM.
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToEntity converts the GORM model to a domain entity.
func (m *RecipeModel) ToEntity() entity.Recipe {
	return entity.Recipe{
		ID:                m.ID,
		Title:             m.Title,
		Ingredients:       m.Ingredients,
		Instructions:      m.Instructions,
		MinutesToComplete: m.MinutesToComplete,
		UserID:            m.UserID,
		CreatedAt:         m.CreatedAt,
	}
}

// RecipeModelFromEntity converts a domain entity to a GORM model.
func RecipeModelFromEntity(r *entity.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                r.ID,
		Title:             r.Title,
		Ingredients:       r.Ingredients,
		Instructions:      r.Instructions,
		MinutesToComplete: r.MinutesToComplete,
		UserID:            r.UserID,
		CreatedAt:         r.CreatedAt,
	}
}
