package store

import (
	"time"

	"toolstore/internal/domain"
)

// DemoCatalog is the starter catalog inserted into an empty database.
func DemoCatalog(now time.Time) ([]domain.Category, []domain.Subcategory, []domain.Product) {
	cats := []domain.Category{
		{ID: "power-tools", Name: "Power Tools", Description: "Electric and battery-powered power tools", CreatedAt: now},
		{ID: "machine-armature", Name: "Machine Armature", Description: "Armature and motor components", CreatedAt: now},
		{ID: "machining-coil", Name: "Machining Coil", Description: "Coils and winding components for machining", CreatedAt: now},
	}
	subs := []domain.Subcategory{
		{ID: "power-tools-drills", CategoryID: "power-tools", Name: "Drill Machines", CreatedAt: now},
		{ID: "power-tools-cutters", CategoryID: "power-tools", Name: "Cutting Machine", CreatedAt: now},
		{ID: "machine-armature-rotors", CategoryID: "machine-armature", Name: "Rotors", CreatedAt: now},
		{ID: "machining-coil-field", CategoryID: "machining-coil", Name: "Field Coils", CreatedAt: now},
	}
	prods := []domain.Product{
		{
			ID: "cordless-drill-18v", Name: "Cordless Drill 18V", CategoryID: "power-tools", Subcategory: "Drill Machines",
			Description: "Compact and powerful 18V cordless drill for professional use.",
			Specifications: domain.Specs{{Name: "Voltage", Value: "18V"}, {Name: "Chuck", Value: "13mm"}},
			Price: 7499, Images: domain.StringList{}, Stock: 12, CreatedAt: now,
		},
		{
			ID: "armature-gbm-13", Name: "Armature for GBM 13", CategoryID: "machine-armature", Subcategory: "Rotors",
			Description: "Replacement armature for 13mm rotary drills.",
			Specifications: domain.Specs{{Name: "Fits", Value: "GBM 13 RE"}},
			Price: 899, Images: domain.StringList{}, Stock: 40, CreatedAt: now,
		},
		{
			ID: "field-coil-4in", Name: "Field Coil 4in Grinder", CategoryID: "machining-coil", Subcategory: "Field Coils",
			Description: "Copper field coil for 4 inch angle grinders.",
			Specifications: domain.Specs{{Name: "Winding", Value: "Copper"}},
			Price: 349, Images: domain.StringList{}, Stock: 25, CreatedAt: now,
		},
	}
	return cats, subs, prods
}
