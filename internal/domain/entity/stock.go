package entity

import "time"

// InventoryStock stock de una variante en una bodega. Única por (VariantID, WarehouseID).
// Invariantes: QtyOnHand >= 0, QtyReserved >= 0, QtyReserved <= QtyOnHand.
type InventoryStock struct {
	VariantID   int64
	WarehouseID int64
	QtyOnHand   int
	QtyReserved int
	UpdatedAt   time.Time
}

// QtyAvailable cantidad disponible (derivada, nunca se persiste).
func (s *InventoryStock) QtyAvailable() int {
	return s.QtyOnHand - s.QtyReserved
}

// StockChange actualización parcial de una fila de stock. Los campos nil no se modifican;
// si la fila no existe se crean en 0.
type StockChange struct {
	VariantID   int64
	WarehouseID int64
	QtyOnHand   *int
	QtyReserved *int
}
