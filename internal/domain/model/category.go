package model

import "time"

type Category struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	Slug         string    `gorm:"type:varchar(220);not null;uniqueIndex" json:"slug"`
	Description  string    `gorm:"type:text" json:"description"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (c *Category) FillDefaults() {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
}
