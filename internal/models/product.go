package models

// ProductType represents a tracked baby-care product family
type ProductType string

const (
	// Product types
	ProductDiaper        ProductType = "diaper"
	ProductWipes         ProductType = "wipes"
	ProductCream         ProductType = "cream"
	ProductPowder        ProductType = "powder"
	ProductBags          ProductType = "bags"
	ProductTrainingPants ProductType = "training_pants"
	ProductSwimwear      ProductType = "swimwear"
)

// ProductTypes lists every recognized product type in display order
var ProductTypes = []ProductType{
	ProductDiaper,
	ProductWipes,
	ProductCream,
	ProductPowder,
	ProductBags,
	ProductTrainingPants,
	ProductSwimwear,
}

// Valid reports whether the product type is one of the recognized values
func (p ProductType) Valid() bool {
	switch p {
	case ProductDiaper, ProductWipes, ProductCream, ProductPowder,
		ProductBags, ProductTrainingPants, ProductSwimwear:
		return true
	}
	return false
}

// HasOrdinalSizes reports whether sizes for this product type follow the
// numbered diaper scale rather than free-form labels
func (p ProductType) HasOrdinalSizes() bool {
	return p == ProductDiaper || p == ProductTrainingPants
}

// Diaper sizes on the ordinal scale
const (
	SizeNewborn = "newborn"
	Size1       = "size_1"
	Size2       = "size_2"
	Size3       = "size_3"
	Size4       = "size_4"
	Size5       = "size_5"
	Size6       = "size_6"
	Size7       = "size_7"
)

// diaperSizeRank orders the ordinal diaper scale explicitly instead of
// relying on string sort order
var diaperSizeRank = map[string]int{
	SizeNewborn: 0,
	Size1:       1,
	Size2:       2,
	Size3:       3,
	Size4:       4,
	Size5:       5,
	Size6:       6,
	Size7:       7,
}

// SizeRank returns the ordinal rank of a size for the given product type.
// Unknown sizes rank after all known ones so bad data still sorts stably.
func SizeRank(p ProductType, size string) (int, bool) {
	if !p.HasOrdinalSizes() {
		return 0, false
	}
	rank, ok := diaperSizeRank[size]
	if !ok {
		return len(diaperSizeRank), false
	}
	return rank, true
}
