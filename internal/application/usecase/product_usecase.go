package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	domaininv "github.com/jhoicas/perfumes-admin-api/internal/domain/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const (
	maxProductNameLen = 150
	// MaxImageSize tamaño máximo de imagen de producto.
	MaxImageSize = 5 << 20
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductOptions reglas de catálogo.
type ProductOptions struct {
	// RequireLot exige lot_id al crear. En false, sin lot_id se crea un lote propio del alta.
	RequireLot bool
	// UploadsDir prefijo de las rutas de imágenes dentro del almacenamiento.
	UploadsDir string
}

// ProductUseCase CRUD de productos. El stock solo se mueve por lotes y ventas.
type ProductUseCase struct {
	txRunner  inventory.TxRunner
	repo      repository.ProductRepository
	brandRepo repository.BrandRepository
	images    ImageStorage
	opts      ProductOptions
	log       *logger.Logger
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso. images puede ser nil (sin subida de imágenes).
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	images ImageStorage,
	opts ProductOptions,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:  txRunner,
		repo:      repo,
		brandRepo: brandRepo,
		images:    images,
		opts:      opts,
		log:       log.Named("products"),
		now:       time.Now,
	}
}

// Create da de alta el producto con stock 0 y registra el stock inicial como ítem de lote,
// todo en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := normalizeName("name", in.Name, maxProductNameLen)
	if err != nil {
		return nil, err
	}
	if err := checkPrice("purchase_price", in.PurchasePrice); err != nil {
		return nil, err
	}
	if err := checkPrice("sale_price", in.SalePrice); err != nil {
		return nil, err
	}
	lotBound := in.LotID != nil || uc.opts.RequireLot
	switch {
	case lotBound && in.LotID == nil:
		return nil, domain.Invalid("lot_id", "requerido")
	case lotBound && in.Quantity <= 0:
		return nil, domain.Invalid("quantity", "debe ser mayor a 0")
	case in.Quantity < 0:
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	case in.Quantity > domaininv.MaxQuantity:
		return nil, domain.Invalid("quantity", "máximo %d", domaininv.MaxQuantity)
	}
	if err := uc.checkBrand(ctx, in.BrandID); err != nil {
		return nil, err
	}

	now := uc.now()
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	product := &entity.Product{
		Name:          name,
		BrandID:       in.BrandID,
		PurchasePrice: domaininv.NormalizeMoney(in.PurchasePrice),
		SalePrice:     domaininv.NormalizeMoney(in.SalePrice),
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var lotID int64
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, lots repository.LotRepository, _ repository.SaleRepository) error {
		if in.LotID != nil {
			lot, err := lots.GetByID(ctx, *in.LotID)
			if err != nil {
				return err
			}
			if lot == nil {
				return domain.ErrNotFound
			}
			lotID = lot.ID
		} else if in.Quantity > 0 {
			lot := &entity.Lot{Name: truncate("Alta de producto "+name, 120), Date: dateOnly(now), CreatedAt: now}
			if err := lots.Create(ctx, lot); err != nil {
				return err
			}
			lotID = lot.ID
		}

		if err := products.Create(ctx, product); err != nil {
			return err
		}
		if lotID == 0 {
			return nil
		}
		_, err := inventory.ApplyLotIntake(ctx, products, lots, lotID, []inventory.LotLine{
			{ProductID: product.ID, Quantity: in.Quantity, UnitCost: product.PurchasePrice},
		})
		if err != nil {
			return err
		}
		product.Quantity = in.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", product.ID).Int64("lot_id", lotID).Int64("quantity", product.Quantity).Msg("producto creado")
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List filtra por nombre, marca y estado; ordena por nombre.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{Search: q.Search, BrandID: q.BrandID, Active: q.Active})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update aplica un PATCH: solo cambian los campos presentes en el cuerpo.
// La lectura y la escritura ocurren en la misma tx con la fila bloqueada, así un ingreso
// de lote concurrente no pierde su purchase_price.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	apply, err := uc.patchFunc(ctx, in)
	if err != nil {
		return nil, err
	}

	var out *entity.Product
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.LotRepository, _ repository.SaleRepository) error {
		product, err := lockProduct(ctx, products, id)
		if err != nil {
			return err
		}
		apply(product)
		product.UpdatedAt = uc.now()
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// patchFunc valida el cuerpo completo antes de tocar la BD y devuelve los cambios a aplicar.
func (uc *ProductUseCase) patchFunc(ctx context.Context, in dto.UpdateProductRequest) (func(*entity.Product), error) {
	if in.Quantity.Set {
		return nil, domain.Invalid("quantity", "el stock solo cambia con lotes y ventas")
	}
	var steps []func(*entity.Product)

	if in.Name.Set {
		name, err := normalizeName("name", in.Name.Value, maxProductNameLen)
		if err != nil {
			return nil, err
		}
		steps = append(steps, func(p *entity.Product) { p.Name = name })
	}
	if in.BrandID.Set {
		brandID := in.BrandID.Ptr()
		if err := uc.checkBrand(ctx, brandID); err != nil {
			return nil, err
		}
		steps = append(steps, func(p *entity.Product) { p.BrandID = brandID })
	}
	if in.PurchasePrice.Set {
		if in.PurchasePrice.Null {
			return nil, domain.Invalid("purchase_price", "no puede ser null")
		}
		if err := checkPrice("purchase_price", in.PurchasePrice.Value); err != nil {
			return nil, err
		}
		price := domaininv.NormalizeMoney(in.PurchasePrice.Value)
		steps = append(steps, func(p *entity.Product) { p.PurchasePrice = price })
	}
	if in.SalePrice.Set {
		if in.SalePrice.Null {
			return nil, domain.Invalid("sale_price", "no puede ser null")
		}
		if err := checkPrice("sale_price", in.SalePrice.Value); err != nil {
			return nil, err
		}
		price := domaininv.NormalizeMoney(in.SalePrice.Value)
		steps = append(steps, func(p *entity.Product) { p.SalePrice = price })
	}
	if in.Active.Set {
		if in.Active.Null {
			return nil, domain.Invalid("active", "no puede ser null")
		}
		active := in.Active.Value
		steps = append(steps, func(p *entity.Product) { p.Active = active })
	}
	if in.ImageURL.Set {
		var url *string
		if v := strings.TrimSpace(in.ImageURL.Value); !in.ImageURL.Null && v != "" {
			url = &v
		}
		steps = append(steps, func(p *entity.Product) { p.ImageURL = url })
	}

	return func(p *entity.Product) {
		for _, step := range steps {
			step(p)
		}
	}, nil
}

// Delete falla con ErrConflict si el producto figura en algún lote o venta.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.removeImage(ctx, product.ImageURL)
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

// UploadImage guarda la imagen y actualiza image_url. La imagen anterior se borra si es nuestra.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id int64, r io.Reader) (*dto.ProductResponse, error) {
	if uc.images == nil {
		return nil, domain.Invalid("file", "la subida de imágenes no está habilitada")
	}
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer imagen: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.Invalid("file", "archivo vacío")
	}
	if len(data) > MaxImageSize {
		return nil, domain.Invalid("file", "la imagen supera %d MB", MaxImageSize>>20)
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.Invalid("file", "tipo de archivo no permitido: %s", contentType)
	}

	key := path.Join(uc.opts.UploadsDir, "products", fmt.Sprintf("%d-%s%s", id, uuid.NewString(), ext))
	if err := uc.images.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, err
	}

	url := uc.images.URL(key)
	var out *entity.Product
	var previous *string
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, _ repository.LotRepository, _ repository.SaleRepository) error {
		product, err := lockProduct(ctx, products, id)
		if err != nil {
			return err
		}
		previous = product.ImageURL
		product.ImageURL = &url
		product.UpdatedAt = uc.now()
		if err := products.Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		_ = uc.images.Delete(ctx, key)
		return nil, err
	}
	uc.removeImage(ctx, previous)
	uc.log.Info().Int64("product_id", id).Str("path", key).Int("bytes", len(data)).Msg("imagen de producto actualizada")
	return toProductResponse(out), nil
}

func (uc *ProductUseCase) removeImage(ctx context.Context, url *string) {
	if uc.images == nil || url == nil {
		return
	}
	key, ok := uc.images.PathFromURL(*url)
	if !ok {
		return
	}
	if err := uc.images.Delete(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("path", key).Msg("no se pudo borrar la imagen anterior")
	}
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// lockProduct bloquea la fila dentro de la tx y la devuelve.
func lockProduct(ctx context.Context, products repository.ProductRepository, id int64) (*entity.Product, error) {
	locked, err := products.LockByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	product, ok := locked[id]
	if !ok || product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) checkBrand(ctx context.Context, brandID *int64) error {
	if brandID == nil {
		return nil
	}
	brand, err := uc.brandRepo.GetByID(ctx, *brandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return fmt.Errorf("marca %d: %w", *brandID, domain.ErrNotFound)
	}
	return nil
}

func checkPrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	if !domaininv.MoneyInRange(domaininv.NormalizeMoney(v)) {
		return domain.Invalid(field, "fuera de rango")
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		BrandID:       p.BrandID,
		PurchasePrice: dto.NewMoney(p.PurchasePrice),
		SalePrice:     dto.NewMoney(p.SalePrice),
		Quantity:      p.Quantity,
		Active:        p.Active,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
