package location

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kahenga/onyesha/core"
)

// Levels of the strict containment hierarchy:
// Zone ⊂ SubSection ⊂ Section ⊂ Location.
const (
	LevelLocation   = "location"
	LevelSection    = "section"
	LevelSubSection = "sub_section"
	LevelZone       = "zone"
)

// Levels lists the hierarchy top-down.
var Levels = []string{LevelLocation, LevelSection, LevelSubSection, LevelZone}

// ParentLevel returns the containing level, or "" for the root level.
func ParentLevel(level string) string {
	for i, l := range Levels {
		if l == level && i > 0 {
			return Levels[i-1]
		}
	}
	return ""
}

// ChildLevel returns the contained level, or "" for the leaf level.
func ChildLevel(level string) string {
	for i, l := range Levels {
		if l == level && i < len(Levels)-1 {
			return Levels[i+1]
		}
	}
	return ""
}

// ValidLevel reports whether level names one of the four hierarchy levels.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Node is one entry at any level of the hierarchy. ParentID is empty for
// locations and references the immediate parent otherwise.
type Node struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Hierarchy is the full four-level tree, flattened per level.
type Hierarchy struct {
	Locations   []Node `json:"locations"`
	Sections    []Node `json:"sections"`
	SubSections []Node `json:"sub_sections"`
	Zones       []Node `json:"zones"`
}

// NewNode contains information needed to create a hierarchy entry.
type NewNode struct {
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parent_id"`
}

func (nn *NewNode) Validate(ctx context.Context, level string, validate *validator.Validate, svc Service) error {
	nn.Name = core.CleanString(nn.Name)
	if err := validate.Struct(nn); err != nil {
		return err
	}
	return svc.CheckParent(ctx, level, nn.ParentID)
}

// RenameNode carries the only mutable field of a hierarchy entry.
type RenameNode struct {
	Name string `json:"name" validate:"required"`
}

func (rn *RenameNode) Validate(validate *validator.Validate) error {
	rn.Name = core.CleanString(rn.Name)
	return validate.Struct(rn)
}
