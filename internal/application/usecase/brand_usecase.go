package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const maxBrandNameLen = 100

// BrandUseCase CRUD de marcas.
type BrandUseCase struct {
	repo repository.BrandRepository
	log  *logger.Logger
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(repo repository.BrandRepository, log *logger.Logger) *BrandUseCase {
	return &BrandUseCase{repo: repo, log: log.Named("brands")}
}

// normalizeName recorta y normaliza a NFC para que "Chloé" compuesto y descompuesto sean el mismo nombre.
func normalizeName(field, s string, max int) (string, error) {
	name := norm.NFC.String(strings.TrimSpace(s))
	if name == "" {
		return "", domain.Invalid(field, "requerido")
	}
	if utf8.RuneCountInString(name) > max {
		return "", domain.Invalid(field, "máximo %d caracteres", max)
	}
	return name, nil
}

// Create crea una marca. Nombre duplicado devuelve ErrAlreadyExists.
func (uc *BrandUseCase) Create(ctx context.Context, in dto.BrandRequest) (*dto.BrandResponse, error) {
	name, err := normalizeName("name", in.Name, maxBrandNameLen)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	brand := &entity.Brand{Name: name}
	if err := uc.repo.Create(ctx, brand); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("brand_id", brand.ID).Str("name", name).Msg("marca creada")
	return toBrandResponse(brand), nil
}

// List devuelve todas las marcas por nombre.
func (uc *BrandUseCase) List(ctx context.Context) ([]dto.BrandResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BrandResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBrandResponse(b))
	}
	return out, nil
}

func (uc *BrandUseCase) GetByID(ctx context.Context, id int64) (*dto.BrandResponse, error) {
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	return toBrandResponse(brand), nil
}

// Update renombra la marca.
func (uc *BrandUseCase) Update(ctx context.Context, id int64, in dto.BrandRequest) (*dto.BrandResponse, error) {
	name, err := normalizeName("name", in.Name, maxBrandNameLen)
	if err != nil {
		return nil, err
	}
	brand, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.ErrAlreadyExists
	}
	brand.Name = name
	if err := uc.repo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return toBrandResponse(brand), nil
}

// Delete elimina la marca; sus productos quedan sin marca.
func (uc *BrandUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("brand_id", id).Msg("marca eliminada")
	return nil
}

func toBrandResponse(b *entity.Brand) *dto.BrandResponse {
	return &dto.BrandResponse{ID: b.ID, Name: b.Name}
}
