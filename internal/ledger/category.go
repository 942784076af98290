// Package ledger implements the fund bookkeeping core: category resolution,
// normalization of persisted records, per-currency balance replay and the
// append-only audit history applied on edits.
package ledger

import "strings"

// Current category set. The group a category belongs to decides which of the
// two amount fields of a movement is active.
const (
	CategoryVentas        = "VENTAS"
	CategoryOtrosIngresos = "OTROS INGRESOS"

	CategorySalarios      = "SALARIOS"
	CategoryProveedores   = "PROVEEDORES"
	CategoryAlquiler      = "ALQUILER"
	CategoryElectricidad  = "ELECTRICIDAD"
	CategoryAgua          = "AGUA"
	CategoryInternet      = "INTERNET"
	CategoryMantenimiento = "MANTENIMIENTO"
	CategoryPapeleria     = "PAPELERIA"
)

// DefaultOutflowCategory is the historical generic-expense bucket that
// unknown legacy categories fall back to.
const DefaultOutflowCategory = CategoryElectricidad

var inflowCategories = map[string]bool{
	CategoryVentas:        true,
	CategoryOtrosIngresos: true,
}

var outflowCategories = map[string]bool{
	CategorySalarios:      true,
	CategoryProveedores:   true,
	CategoryAlquiler:      true,
	CategoryElectricidad:  true,
	CategoryAgua:          true,
	CategoryInternet:      true,
	CategoryMantenimiento: true,
	CategoryPapeleria:     true,
}

// legacyAliases maps free-form category values found in old stored data to
// the current set.
var legacyAliases = map[string]string{
	"INGRESO": CategoryVentas,
	"VENTA":   CategoryVentas,
	"EGRESO":  CategoryElectricidad,
	"GASTO":   CategoryElectricidad,
	"COMPRA":  CategoryProveedores,
	"PAGO":    CategoryProveedores,
}

// IsInflow reports whether category belongs to the inflow group.
func IsInflow(category string) bool {
	return inflowCategories[category]
}

// IsKnownCategory reports whether category is a member of the current set.
func IsKnownCategory(category string) bool {
	return inflowCategories[category] || outflowCategories[category]
}

// ResolveCategory maps a stored category value to the current set: trim and
// uppercase, keep known values, translate legacy aliases, otherwise fall back
// to the generic expense category.
func ResolveCategory(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if IsKnownCategory(c) {
		return c
	}
	if alias, ok := legacyAliases[c]; ok {
		return alias
	}
	return DefaultOutflowCategory
}
