package entity

// Códigos de estado de pedido (tabla de referencia cerrada).
const (
	OrderStatusCotizado    = "COTIZADO"
	OrderStatusTransmitido = "TRANSMITIDO"
	OrderStatusEnCurso     = "EN_CURSO"
	OrderStatusEnviado     = "ENVIADO"
	OrderStatusCancelado   = "CANCELADO"
)

// OrderStatus fila de la tabla order_statuses.
type OrderStatus struct {
	ID        int64
	Code      string
	Label     string
	SortOrder int
	IsActive  bool
}
