package repository

// TxRepositories repositorios atados a una misma transacción de BD.
type TxRepositories struct {
	Products      ProductRepository
	Variants      VariantRepository
	Warehouses    WarehouseRepository
	Stock         StockRepository
	Orders        OrderRepository
	OrderStatuses OrderStatusRepository
	Users         UserRepository
}
