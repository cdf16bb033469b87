package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	domorder "github.com/jhoicas/distribuidora-api/internal/domain/order"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// Options comportamiento configurable del flujo de pedidos.
type Options struct {
	// StrictActor: un usuario actuante inexistente es NotFoundError en lugar de
	// aplicar el cambio sin atribución.
	StrictActor     bool
	DefaultCurrency string
	Limits          dto.PageLimits
}

// WorkflowUseCase cotizaciones y su avance por el flujo de estados.
type WorkflowUseCase struct {
	txRunner   TxRunner
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	workflow   *domorder.Workflow
	pdf        QuotePDFGenerator
	opts       Options
	log        *logger.Logger
	now        func() time.Time
}

// NewWorkflowUseCase construye el caso de uso con la tabla de transiciones indicada.
func NewWorkflowUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	workflow *domorder.Workflow,
	pdf QuotePDFGenerator,
	opts Options,
	log *logger.Logger,
) *WorkflowUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{
		txRunner:   txRunner,
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		workflow:   workflow,
		pdf:        pdf,
		opts:       opts,
		log:        log.Component("orders"),
		now:        time.Now,
	}
}

// TransitionStatus mueve el pedido al estado newStatus si la tabla activa lo permite.
// Dentro de la transacción bloquea la fila, revalida y escribe con compare-and-swap.
func (uc *WorkflowUseCase) TransitionStatus(ctx context.Context, orderID int64, newStatus string, actingUserID *int64) (*dto.TransitionStatusResponse, error) {
	target := strings.ToUpper(strings.TrimSpace(newStatus))
	if !domorder.IsKnownStatus(target) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado desconocido: %q", newStatus))
	}

	current, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NewNotFoundError("pedido", orderID)
	}
	if err := uc.workflow.Validate(current.Status.Code, target); err != nil {
		return nil, err
	}

	var from string
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		actor, err := uc.resolveActor(ctx, repos.Users, orderID, actingUserID)
		if err != nil {
			return err
		}
		status, err := repos.OrderStatuses.GetByCode(ctx, target)
		if err != nil {
			return err
		}
		if status == nil {
			return domain.NewValidationError("status", fmt.Sprintf("estado no configurado: %s", target))
		}
		locked, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NewNotFoundError("pedido", orderID)
		}
		if err := uc.workflow.Validate(locked.Status.Code, target); err != nil {
			return err
		}
		ok, err := repos.Orders.UpdateStatus(ctx, repository.OrderStatusUpdate{
			OrderID:          orderID,
			ExpectedStatusID: locked.StatusID,
			NewStatusID:      status.ID,
			UpdatedByUserID:  actor,
			UpdatedAt:        uc.now(),
		})
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ConcurrentModificationError{Entity: "pedido", ID: orderID}
		}
		from = locked.Status.Code
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NewNotFoundError("pedido", orderID)
	}

	uc.log.Info().
		Int64("order_id", orderID).
		Str("from", from).
		Str("to", target).
		Str("workflow", uc.workflow.Name()).
		Msg("estado de pedido actualizado")

	return &dto.TransitionStatusResponse{
		Message: fmt.Sprintf("Pedido %s pasó de %s a %s", updated.Code, from, target),
		Order:   uc.toResponse(updated),
	}, nil
}

// resolveActor devuelve el usuario a registrar en updated_by, o nil si no hay atribución.
func (uc *WorkflowUseCase) resolveActor(ctx context.Context, users repository.UserRepository, orderID int64, actingUserID *int64) (*int64, error) {
	if actingUserID == nil {
		return nil, nil
	}
	exists, err := users.Exists(ctx, *actingUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return actingUserID, nil
	}
	if uc.opts.StrictActor {
		return nil, domain.NewNotFoundError("usuario", *actingUserID)
	}
	uc.log.Warn().
		Int64("order_id", orderID).
		Int64("user_id", *actingUserID).
		Msg("usuario actuante inexistente: el cambio de estado queda sin atribución")
	return nil, nil
}

// Create registra una cotización (estado COTIZADO). Cada línea guarda una copia
// de descripción y precios; las líneas no se modifican después.
func (uc *WorkflowUseCase) Create(ctx context.Context, in dto.CreateOrderRequest, actingUserID *int64) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos una línea")
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Qty <= 0 {
			return nil, domain.NewValidationError(field+".qty", "debe ser mayor que 0")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(field+".unit_price", "no puede ser negativo")
		}
		if it.ListPrice != nil && it.ListPrice.IsNegative() {
			return nil, domain.NewValidationError(field+".list_price", "no puede ser negativo")
		}
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NewNotFoundError("cliente", in.ClientID)
	}
	if !client.IsActive {
		return nil, domain.NewValidationError("client_id", "el cliente está inactivo")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = uc.opts.DefaultCurrency
	}
	now := uc.now()
	o := &entity.Order{
		Code:      newOrderCode(),
		ClientID:  client.ID,
		Currency:  currency,
		Notes:     strings.TrimSpace(in.Notes),
		Subtotal:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		actor, err := uc.resolveActor(ctx, repos.Users, 0, actingUserID)
		if err != nil {
			return err
		}
		o.CreatedByUserID, o.UpdatedByUserID = actor, actor

		status, err := repos.OrderStatuses.GetByCode(ctx, entity.OrderStatusCotizado)
		if err != nil {
			return err
		}
		if status == nil {
			return fmt.Errorf("estado %s no configurado", entity.OrderStatusCotizado)
		}
		o.StatusID = status.ID

		items := make([]entity.OrderItem, 0, len(in.Items))
		for i, req := range in.Items {
			item, err := snapshotItem(ctx, repos, req, currency, now)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			o.Subtotal = o.Subtotal.Add(item.LineTotal)
			items = append(items, item)
		}
		o.Total = o.Subtotal

		if err := repos.Orders.Create(ctx, o); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := repos.Orders.CreateItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("order_id", o.ID).
		Str("code", o.Code).
		Int64("client_id", o.ClientID).
		Str("total", o.Total.StringFixed(2)).
		Msg("cotización creada")

	return uc.Get(ctx, o.ID)
}

func snapshotItem(ctx context.Context, repos repository.TxRepositories, req dto.CreateOrderItemRequest, currency string, now time.Time) (entity.OrderItem, error) {
	variant, err := repos.Variants.GetByID(ctx, req.VariantID)
	if err != nil {
		return entity.OrderItem{}, err
	}
	if variant == nil {
		return entity.OrderItem{}, domain.NewNotFoundError("variante", req.VariantID)
	}
	if !variant.IsActive {
		return entity.OrderItem{}, domain.NewValidationError("variant_id", "la variante está inactiva")
	}
	product, err := repos.Products.GetByID(ctx, variant.ProductID)
	if err != nil {
		return entity.OrderItem{}, err
	}
	if product == nil {
		return entity.OrderItem{}, domain.NewNotFoundError("producto", variant.ProductID)
	}

	listPrice := product.DefaultPrice
	if req.ListPrice != nil {
		listPrice = *req.ListPrice
	}
	unitPrice := listPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	description := product.Name
	if name := variant.DisplayName(); name != "" {
		description += " - " + name
	}
	return entity.OrderItem{
		VariantID:   variant.ID,
		Qty:         req.Qty,
		UnitPrice:   unitPrice,
		ListPrice:   &listPrice,
		Currency:    currency,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(req.Qty))),
		Description: description,
		CreatedAt:   now,
	}, nil
}

// newOrderCode código legible PED-XXXXXXXX derivado de un UUID.
func newOrderCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PED-" + strings.ToUpper(id[:8])
}

// Get pedido con estado, cliente y líneas.
func (uc *WorkflowUseCase) Get(ctx context.Context, orderID int64) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	res := uc.toResponse(o)
	return &res, nil
}

func (uc *WorkflowUseCase) load(ctx context.Context, orderID int64) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NewNotFoundError("pedido", orderID)
	}
	o.Items, err = uc.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List pedidos paginados, más recientes primero.
func (uc *WorkflowUseCase) List(ctx context.Context, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != "" && !domorder.IsKnownStatus(status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado desconocido: %q", in.Status))
	}
	p := uc.opts.Limits.Apply(in.PageRequest)
	orders, total, err := uc.orderRepo.List(ctx, repository.OrderFilter{
		StatusCode: status,
		ClientID:   in.ClientID,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, uc.toResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.NewPageResponse(p, total)}, nil
}

// QuotePDF documento PDF de la cotización y su nombre de archivo sugerido.
func (uc *WorkflowUseCase) QuotePDF(ctx context.Context, orderID int64) ([]byte, string, error) {
	o, err := uc.load(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateQuotePDF(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return b, o.Code + ".pdf", nil
}

// AllowedNext estados a los que puede pasar un pedido desde code con la tabla activa.
func (uc *WorkflowUseCase) AllowedNext(code string) []string {
	return uc.workflow.Next(code)
}

func (uc *WorkflowUseCase) toResponse(o *entity.Order) dto.OrderResponse {
	res := dto.OrderResponse{
		ID:              o.ID,
		Code:            o.Code,
		Currency:        o.Currency,
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Notes:           o.Notes,
		CreatedByUserID: o.CreatedByUserID,
		UpdatedByUserID: o.UpdatedByUserID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		AllowedNext:     []string{},
	}
	if o.Status != nil {
		res.Status = dto.OrderStatusResponse{ID: o.Status.ID, Code: o.Status.Code, Label: o.Status.Label}
		res.AllowedNext = uc.workflow.Next(o.Status.Code)
	}
	if o.Client != nil {
		res.Client = &dto.ClientRefResponse{ID: o.Client.ID, Name: o.Client.Name, Document: o.Client.Document}
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, dto.OrderItemResponse{
			ID:          it.ID,
			VariantID:   it.VariantID,
			Description: it.Description,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			ListPrice:   it.ListPrice,
			Currency:    it.Currency,
			LineTotal:   it.LineTotal,
		})
	}
	return res
}
