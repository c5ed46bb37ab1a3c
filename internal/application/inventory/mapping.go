package inventory

import (
	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

func toLotResponse(l *entity.Lot) dto.LotResponse {
	items := make([]dto.LotItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, dto.LotItemResponse{
			ID:        it.ID,
			LotID:     it.LotID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  dto.NewMoney(it.UnitCost),
			Subtotal:  dto.NewMoney(it.Subtotal),
		})
	}
	return dto.LotResponse{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		Date:          l.Date.Format(dto.DateLayout),
		CreatedAt:     l.CreatedAt,
		Items:         items,
		TotalQuantity: l.TotalQuantity(),
		TotalCost:     dto.NewMoney(l.TotalCost()),
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:        it.ID,
			SaleID:    it.SaleID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: dto.NewMoney(it.UnitPrice),
			Subtotal:  dto.NewMoney(it.Subtotal),
		})
	}
	return dto.SaleResponse{
		ID:        s.ID,
		SaleDate:  s.SaleDate.Format(dto.DateLayout),
		Note:      s.Note,
		Total:     dto.NewMoney(s.Total),
		CreatedAt: s.CreatedAt,
		Items:     items,
	}
}
