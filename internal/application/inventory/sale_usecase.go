package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
	"github.com/jhoicas/perfumes-admin-api/pkg/metrics"
)

// SaleUseCase registro y consulta de ventas.
type SaleUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	receipts    ReceiptRenderer
	log         *logger.Logger
	now         func() time.Time
}

// NewSaleUseCase construye el caso de uso. receipts puede ser nil si no se exponen comprobantes.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	receipts ReceiptRenderer,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		receipts:    receipts,
		log:         log.Named("sales"),
		now:         time.Now,
	}
}

// Create registra la venta de forma atómica: o se graban todos los ítems y descuentos de stock o ninguno.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	saleDate, err := ParseDate("sale_date", in.SaleDate)
	if err != nil {
		return nil, err
	}
	note, err := cleanOptionalText("note", in.Note, maxSaleNoteLen)
	if err != nil {
		return nil, err
	}
	lines, err := validateSaleItems(in.Items)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{SaleDate: saleDate, Note: note, CreatedAt: uc.now()}
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.LotRepository, sales repository.SaleRepository) error {
		return RecordSale(ctx, products, sales, sale, lines)
	})

	metrics.SalesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		uc.log.Warn().Err(err).Int("lines", len(lines)).Msg("venta rechazada")
		return nil, err
	}
	var units int64
	for _, it := range sale.Items {
		units += it.Quantity
	}
	metrics.UnitsTotal.WithLabelValues("out").Add(float64(units))
	uc.log.Info().Int64("sale_id", sale.ID).Str("total", sale.Total.StringFixed(2)).Int64("units", units).Msg("venta registrada")

	out := toSaleResponse(sale)
	return &out, nil
}

// GetByID devuelve la venta con sus ítems.
func (uc *SaleUseCase) GetByID(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(sale)
	return &out, nil
}

// List lista ventas por creación desc.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleListQuery) ([]dto.SaleResponse, error) {
	limit := dto.DefaultSalesLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit < 1 || limit > dto.MaxSalesLimit {
		return nil, domain.Invalid("limit", "debe estar entre 1 y %d", dto.MaxSalesLimit)
	}
	if q.Offset < 0 {
		return nil, domain.Invalid("offset", "no puede ser negativo")
	}
	from, err := parseOptionalDate("from_date", q.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to_date", q.ToDate)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: from, To: to, Limit: limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return out, nil
}

// Receipt genera el comprobante PDF de la venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, id int64) ([]byte, error) {
	if uc.receipts == nil {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(sale.Items))
	for _, it := range sale.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.receipts.RenderSaleReceipt(sale, products)
}

func (uc *SaleUseCase) get(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}
