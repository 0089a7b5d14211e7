package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/konveksi/internal/apperr"
	"github.com/example/konveksi/internal/models"
)

func testProduct() *models.Product {
	p := &models.Product{Name: "Jersey"}
	p.Colors = []models.ProductColor{
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Navy"},
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "White"},
	}
	p.Materials = []models.ProductMaterial{
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Cotton", AdditionalPrice: 0},
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Dry-fit", AdditionalPrice: 5000},
	}
	p.Sizes = []models.ProductSize{
		{Name: "M"},
		{Name: "XL", AdditionalPrice: 3000},
	}
	p.SKUs = []models.ProductSKU{
		{Code: "JSY-M-NAVY-COT", Size: "M", Color: "Navy", Material: "Cotton"},
		{Code: "JSY-XL-NAVY-DRY", Size: "XL", Color: "Navy", Material: "Dry-fit"},
	}
	return p
}

func TestResolveByName(t *testing.T) {
	p := testProduct()

	sku, err := Resolve(p, "M", AttributeRef{Name: "navy"}, AttributeRef{Name: "Cotton"})

	require.NoError(t, err)
	assert.Equal(t, "JSY-M-NAVY-COT", sku.Code)
}

func TestResolveByIDAndNameAgree(t *testing.T) {
	p := testProduct()

	byID, err := Resolve(p, "XL",
		AttributeRef{ID: p.Colors[0].ID.String()},
		AttributeRef{ID: p.Materials[1].ID.String()})
	require.NoError(t, err)

	byName, err := Resolve(p, "XL", AttributeRef{Name: "Navy"}, AttributeRef{Name: "Dry-fit"})
	require.NoError(t, err)

	assert.Equal(t, byName.Code, byID.Code)
}

func TestResolveInvalidCombination(t *testing.T) {
	p := testProduct()

	// Both attributes exist but the combination was never generated.
	_, err := Resolve(p, "M", AttributeRef{Name: "Navy"}, AttributeRef{Name: "Dry-fit"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestResolveUnknownAttribute(t *testing.T) {
	p := testProduct()

	_, err := Resolve(p, "M", AttributeRef{Name: "Crimson"}, AttributeRef{Name: "Cotton"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSizePrice(t *testing.T) {
	p := testProduct()

	price, err := SizePrice(p, "XL")
	require.NoError(t, err)
	assert.Equal(t, float64(3000), price)

	_, err = SizePrice(p, "XS")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAttributeRefUnmarshal(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name string
		in   string
		want AttributeRef
	}{
		{name: "bare uuid string", in: `"` + id + `"`, want: AttributeRef{ID: id}},
		{name: "bare name string", in: `"Navy"`, want: AttributeRef{Name: "Navy"}},
		{name: "object", in: `{"id":"` + id + `","name":"Navy"}`, want: AttributeRef{ID: id, Name: "Navy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref AttributeRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ref))
			assert.Equal(t, tt.want, ref)
		})
	}
}
