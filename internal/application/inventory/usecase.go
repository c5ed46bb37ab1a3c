package inventory

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
	"github.com/jhoicas/perfumes-admin-api/pkg/metrics"
)

// LotUseCase ingresos de mercadería: crea lotes, agrega ítems y consulta lotes con totales.
type LotUseCase struct {
	txRunner TxRunner
	lotRepo  repository.LotRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(txRunner TxRunner, lotRepo repository.LotRepository, log *logger.Logger) *LotUseCase {
	return &LotUseCase{txRunner: txRunner, lotRepo: lotRepo, log: log.Named("lots"), now: time.Now}
}

// Create crea el lote y registra sus ítems en una sola transacción.
func (uc *LotUseCase) Create(ctx context.Context, in dto.CreateLotRequest) (*dto.LotResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	if utf8.RuneCountInString(name) > maxLotNameLen {
		return nil, domain.Invalid("name", "máximo %d caracteres", maxLotNameLen)
	}
	date, err := ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	desc, err := cleanOptionalText("description", in.Description, maxLotDescriptionLen)
	if err != nil {
		return nil, err
	}
	lines, err := ValidateLotItems(in.Items)
	if err != nil {
		return nil, err
	}

	lot := &entity.Lot{Name: name, Description: desc, Date: date, CreatedAt: uc.now()}
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, lots repository.LotRepository, _ repository.SaleRepository) error {
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		items, err := ApplyLotIntake(ctx, products, lots, lot.ID, lines)
		if err != nil {
			return err
		}
		lot.Items = items
		return nil
	})
	uc.observe(err, lines)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("lot_id", lot.ID).Int("items", len(lot.Items)).Int64("units", lot.TotalQuantity()).Msg("lote registrado")
	out := toLotResponse(lot)
	return &out, nil
}

// AddItems agrega ítems a un lote existente. Sin ítems devuelve el lote tal cual.
func (uc *LotUseCase) AddItems(ctx context.Context, lotID int64, items []dto.LotItemRequest) (*dto.LotResponse, error) {
	lines, err := ValidateLotItems(items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return uc.GetByID(ctx, lotID)
	}

	var lot *entity.Lot
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, lots repository.LotRepository, _ repository.SaleRepository) error {
		existing, err := lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if _, err := ApplyLotIntake(ctx, products, lots, lotID, lines); err != nil {
			return err
		}
		lot, err = lots.GetByID(ctx, lotID)
		return err
	})
	uc.observe(err, lines)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("lot_id", lotID).Int("items_added", len(lines)).Msg("ítems agregados al lote")
	out := toLotResponse(lot)
	return &out, nil
}

// GetByID devuelve el lote con ítems y totales.
func (uc *LotUseCase) GetByID(ctx context.Context, id int64) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	out := toLotResponse(lot)
	return &out, nil
}

// List lista lotes por fecha desc y creación desc.
func (uc *LotUseCase) List(ctx context.Context, q dto.LotListQuery) ([]dto.LotResponse, error) {
	from, err := parseOptionalDate("from_date", q.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to_date", q.ToDate)
	if err != nil {
		return nil, err
	}
	list, err := uc.lotRepo.List(ctx, repository.LotFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLotResponse(l))
	}
	return out, nil
}

func (uc *LotUseCase) observe(err error, lines []LotLine) {
	metrics.LotIntakesTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		uc.log.Warn().Err(err).Msg("ingreso de lote rechazado")
		return
	}
	var units int64
	for _, ln := range lines {
		units += ln.Quantity
	}
	metrics.UnitsTotal.WithLabelValues("in").Add(float64(units))
}
