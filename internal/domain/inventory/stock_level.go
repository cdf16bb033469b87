package inventory

import "fmt"

// StockStatus clasificación derivada de una cantidad en stock. Nunca se persiste.
type StockStatus string

const (
	OutOfStock StockStatus = "out_of_stock"
	LowStock   StockStatus = "low_stock"
	InStock    StockStatus = "in_stock"
)

// DefaultLowStockThreshold umbral por defecto: por debajo de 20 unidades el stock es bajo.
const DefaultLowStockThreshold = 20

// ParseStockStatus valida un filtro de estado de stock recibido del exterior.
func ParseStockStatus(s string) (StockStatus, error) {
	switch StockStatus(s) {
	case OutOfStock, LowStock, InStock:
		return StockStatus(s), nil
	}
	return "", fmt.Errorf("estado de stock desconocido: %q", s)
}

// StockPolicy política de clasificación de stock (servicio de dominio).
type StockPolicy struct {
	LowStockThreshold int
}

// NewStockPolicy construye la política; un umbral <= 0 usa DefaultLowStockThreshold.
func NewStockPolicy(lowStockThreshold int) StockPolicy {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return StockPolicy{LowStockThreshold: lowStockThreshold}
}

// Classify mapea una cantidad total a OutOfStock (0), LowStock (1..umbral-1) o InStock (umbral+).
func (p StockPolicy) Classify(total int) StockStatus {
	switch {
	case total <= 0:
		return OutOfStock
	case total < p.LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

// IsBelowThreshold indica si una fila de stock cuenta como bajo stock en el resumen (incluye 0).
func (p StockPolicy) IsBelowThreshold(qty int) bool {
	return qty < p.LowStockThreshold
}
