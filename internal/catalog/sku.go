// Package catalog resolves requested attribute combinations against a
// product's generated SKU table.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

// AttributeRef points at a product color or material. Clients send either a
// bare string (the catalog id or the display name) or an object carrying the
// same fields; both must resolve to the identical SKU.
type AttributeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *AttributeRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if _, parseErr := uuid.Parse(s); parseErr == nil {
			r.ID = s
		} else {
			r.Name = s
		}
		return nil
	}

	type plain AttributeRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = AttributeRef(p)
	return nil
}

// IsZero reports whether the ref carries nothing to resolve.
func (r AttributeRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// ColorName resolves the ref to a color display name on the product.
func ColorName(product *models.Product, ref AttributeRef) (string, error) {
	if ref.ID != "" {
		if id, err := uuid.Parse(ref.ID); err == nil {
			for _, c := range product.Colors {
				if c.ID == id {
					return c.Name, nil
				}
			}
		}
	}
	if ref.Name != "" {
		for _, c := range product.Colors {
			if strings.EqualFold(c.Name, ref.Name) {
				return c.Name, nil
			}
		}
	}
	return "", apperr.NotFound("color not offered for product %s", product.Name)
}

// MaterialName resolves the ref to a material on the product, returning the
// display name and the material's price surcharge.
func MaterialName(product *models.Product, ref AttributeRef) (string, float64, error) {
	if ref.ID != "" {
		if id, err := uuid.Parse(ref.ID); err == nil {
			for _, m := range product.Materials {
				if m.ID == id {
					return m.Name, m.AdditionalPrice, nil
				}
			}
		}
	}
	if ref.Name != "" {
		for _, m := range product.Materials {
			if strings.EqualFold(m.Name, ref.Name) {
				return m.Name, m.AdditionalPrice, nil
			}
		}
	}
	return "", 0, apperr.NotFound("material not offered for product %s", product.Name)
}

// SizePrice returns the surcharge for a size the product offers.
func SizePrice(product *models.Product, size string) (float64, error) {
	for _, s := range product.Sizes {
		if strings.EqualFold(s.Name, size) {
			return s.AdditionalPrice, nil
		}
	}
	return 0, apperr.NotFound("size %s not offered for product %s", size, product.Name)
}

// Resolve matches (size, color, material) against the product's generated
// SKU table. The refs may be catalog ids or inline display names. A miss is
// an invalid combination and the caller must reject the request before any
// persistence.
func Resolve(product *models.Product, size string, colorRef, materialRef AttributeRef) (*models.ProductSKU, error) {
	colorName, err := ColorName(product, colorRef)
	if err != nil {
		return nil, err
	}
	materialName, _, err := MaterialName(product, materialRef)
	if err != nil {
		return nil, err
	}

	for i := range product.SKUs {
		sku := &product.SKUs[i]
		if strings.EqualFold(sku.Size, size) &&
			strings.EqualFold(sku.Color, colorName) &&
			strings.EqualFold(sku.Material, materialName) {
			return sku, nil
		}
	}

	return nil, apperr.NotFound("combination %s/%s/%s is not offered for product %s",
		size, colorName, materialName, product.Name)
}
