package catalog

import "github.com/jhoicas/libreria-api/pkg/textnorm"

// MarketplaceCondition traduce la condición interna al grado usado por AbeBooks/IberLibro.
func MarketplaceCondition(condition string) string {
	switch textnorm.Fold(condition) {
	case "nuevo":
		return "New"
	case "como nuevo":
		return "Fine"
	case "bueno", "leido", "usado":
		return "Good"
	case "aceptable", "regular":
		return "Fair"
	case "pobre", "malo":
		return "Poor"
	default:
		return "Good"
	}
}
