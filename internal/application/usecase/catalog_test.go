package usecase_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/application/usecase"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

// fakeImages guarda los archivos en memoria.
type fakeImages struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeImages() *fakeImages { return &fakeImages{files: map[string][]byte{}} }

func (f *fakeImages) Put(_ context.Context, path string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = b
	return nil
}

func (f *fakeImages) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeImages) URL(path string) string { return "https://cdn.test/" + path }

func (f *fakeImages) PathFromURL(url string) (string, bool) {
	p, ok := strings.CutPrefix(url, "https://cdn.test/")
	return p, ok
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type catalog struct {
	store    *memory.Store
	brands   *usecase.BrandUseCase
	products *usecase.ProductUseCase
	images   *fakeImages
}

func newCatalog(requireLot bool) *catalog {
	store := memory.New()
	images := newFakeImages()
	log := logger.Nop()
	return &catalog{
		store:  store,
		brands: usecase.NewBrandUseCase(store.Brands(), log),
		products: usecase.NewProductUseCase(store, store.Products(), store.Brands(), images,
			usecase.ProductOptions{RequireLot: requireLot, UploadsDir: "uploads"}, log),
		images: images,
	}
}

func (c *catalog) newLot(t *testing.T) int64 {
	t.Helper()
	lot := &entity.Lot{Name: "Compra", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), CreatedAt: time.Now()}
	require.NoError(t, c.store.Lots().Create(context.Background(), lot))
	return lot.ID
}

func productRequest(name string, qty int64, lotID *int64) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:          name,
		PurchasePrice: decimal.RequireFromString("40"),
		SalePrice:     decimal.RequireFromString("89.90"),
		Quantity:      qty,
		LotID:         lotID,
	}
}

func TestBrand_CrearNormalizaYRechazaDuplicado(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()

	b, err := c.brands.Create(ctx, dto.BrandRequest{Name: "  Carolina Herrera "})
	require.NoError(t, err)
	assert.Equal(t, "Carolina Herrera", b.Name)

	_, err = c.brands.Create(ctx, dto.BrandRequest{Name: "Carolina Herrera"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = c.brands.Create(ctx, dto.BrandRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.brands.Create(ctx, dto.BrandRequest{Name: strings.Repeat("x", 101)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBrand_ListarPorNombreYRenombrar(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	for _, n := range []string{"Versace", "Armani", "Lancôme"} {
		_, err := c.brands.Create(ctx, dto.BrandRequest{Name: n})
		require.NoError(t, err)
	}
	list, err := c.brands.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Armani", list[0].Name)
	assert.Equal(t, "Versace", list[2].Name)

	_, err = c.brands.Update(ctx, list[0].ID, dto.BrandRequest{Name: "Versace"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	renamed, err := c.brands.Update(ctx, list[0].ID, dto.BrandRequest{Name: "Giorgio Armani"})
	require.NoError(t, err)
	assert.Equal(t, "Giorgio Armani", renamed.Name)

	_, err = c.brands.Update(ctx, 999, dto.BrandRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, c.brands.Delete(ctx, 999), domain.ErrNotFound)
}

func TestBrand_BorrarDejaProductosSinMarca(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	brand, err := c.brands.Create(ctx, dto.BrandRequest{Name: "Dior"})
	require.NoError(t, err)

	lotID := c.newLot(t)
	req := productRequest("J'adore", 4, &lotID)
	req.BrandID = &brand.ID
	p, err := c.products.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, p.BrandID)

	require.NoError(t, c.brands.Delete(ctx, brand.ID))

	got, err := c.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BrandID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Quantity, got.Quantity)
	assert.True(t, p.SalePrice.Equal(got.SalePrice.Decimal))
}

func TestProduct_CrearRegistraStockEnElLote(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	lotID := c.newLot(t)

	p, err := c.products.Create(ctx, productRequest("La Vie Est Belle", 6, &lotID))
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.Quantity)
	assert.True(t, p.Active)

	lot, err := c.store.Lots().GetByID(ctx, lotID)
	require.NoError(t, err)
	require.Len(t, lot.Items, 1)
	assert.Equal(t, p.ID, lot.Items[0].ProductID)
	assert.Equal(t, int64(6), lot.Items[0].Quantity)
	assert.Equal(t, "40.00", lot.Items[0].UnitCost.StringFixed(2))
}

func TestProduct_CrearValidaLoteYCantidad(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	lotID := c.newLot(t)
	missingLot := int64(404)
	missingBrand := int64(77)

	_, err := c.products.Create(ctx, productRequest("A", 1, nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin lot_id")

	_, err = c.products.Create(ctx, productRequest("A", 0, &lotID))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = c.products.Create(ctx, productRequest("A", 1, &missingLot))
	assert.ErrorIs(t, err, domain.ErrNotFound, "lote inexistente")

	req := productRequest("A", 1, &lotID)
	req.BrandID = &missingBrand
	_, err = c.products.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound, "marca inexistente")

	req = productRequest("A", 1, &lotID)
	req.SalePrice = decimal.RequireFromString("-1")
	_, err = c.products.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	req = productRequest("A", 1, &lotID)
	req.SalePrice = decimal.RequireFromString("10000000000")
	_, err = c.products.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio fuera de NUMERIC(12,2)")

	req = productRequest("A", 1_000_000_001, &lotID)
	_, err = c.products.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad excesiva")

	// 1e9 unidades × 40 supera el rango del subtotal del ítem de lote
	_, err = c.products.Create(ctx, productRequest("A", 1_000_000_000, &lotID))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "subtotal fuera de rango")

	list, err := c.products.List(ctx, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProduct_SinLoteObligatorioCreaLotePropio(t *testing.T) {
	c := newCatalog(false)
	ctx := context.Background()

	p, err := c.products.Create(ctx, productRequest("Alien", 2, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Quantity)

	lots, err := c.store.Lots().List(ctx, repository.LotFilter{})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "Alta de producto Alien", lots[0].Name)

	empty, err := c.products.Create(ctx, productRequest("Angel", 0, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Quantity)
}

func TestProduct_PatchSoloCamposPresentes(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	brand, err := c.brands.Create(ctx, dto.BrandRequest{Name: "Paco Rabanne"})
	require.NoError(t, err)
	lotID := c.newLot(t)
	req := productRequest("1 Million", 3, &lotID)
	req.BrandID = &brand.ID
	p, err := c.products.Create(ctx, req)
	require.NoError(t, err)

	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: dto.Some(int64(99))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{SalePrice: dto.Some(decimal.RequireFromString("95.5"))})
	require.NoError(t, err)
	assert.Equal(t, "95.50", got.SalePrice.StringFixed(2))
	assert.Equal(t, "1 Million", got.Name)
	require.NotNil(t, got.BrandID)
	assert.Equal(t, int64(3), got.Quantity)

	// brand_id: null quita la marca
	got, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{BrandID: dto.Optional[int64]{Set: true, Null: true}})
	require.NoError(t, err)
	assert.Nil(t, got.BrandID)

	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Active: dto.Optional[bool]{Set: true, Null: true}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Update(ctx, 12345, dto.UpdateProductRequest{Name: dto.Some("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// concurrentIntake confirma un ingreso de lote una sola vez, en el primer punto de acceso
// del caso de uso al producto (lectura fuera de tx o inicio de la tx), como si otra petición
// lo registrara entre la lectura y la escritura.
type concurrentIntake struct {
	once   sync.Once
	intake func()
}

func (ci *concurrentIntake) fire() {
	if ci.intake != nil {
		ci.once.Do(ci.intake)
	}
}

type intakeOnRead struct {
	repository.ProductRepository
	ci *concurrentIntake
}

func (r *intakeOnRead) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	r.ci.fire()
	return p, err
}

type intakeOnBegin struct {
	inventory.TxRunner
	ci *concurrentIntake
}

func (r *intakeOnBegin) Run(ctx context.Context, fn func(repository.ProductRepository, repository.LotRepository, repository.SaleRepository) error) error {
	r.ci.fire()
	return r.TxRunner.Run(ctx, fn)
}

func newRacingCatalog(t *testing.T) (*catalog, *concurrentIntake, *inventory.LotUseCase) {
	t.Helper()
	c := newCatalog(true)
	log := logger.Nop()
	lots := inventory.NewLotUseCase(c.store, c.store.Lots(), log)
	ci := &concurrentIntake{}
	c.products = usecase.NewProductUseCase(
		&intakeOnBegin{TxRunner: c.store, ci: ci},
		&intakeOnRead{ProductRepository: c.store.Products(), ci: ci},
		c.store.Brands(), c.images,
		usecase.ProductOptions{RequireLot: true, UploadsDir: "uploads"}, log)
	return c, ci, lots
}

func TestProduct_PatchNoPisaPrecioDeIngresoConcurrente(t *testing.T) {
	c, ci, lots := newRacingCatalog(t)
	ctx := context.Background()
	lotID := c.newLot(t)
	p, err := c.products.Create(ctx, productRequest("Invictus", 1, &lotID))
	require.NoError(t, err)

	ci.intake = func() {
		_, err := lots.Create(ctx, dto.CreateLotRequest{
			Name: "Reposición", Date: "2024-05-02",
			Items: []dto.LotItemRequest{{ProductID: p.ID, Quantity: 5, UnitCost: decimal.RequireFromString("99")}},
		})
		require.NoError(t, err)
	}
	got, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: dto.Some("Invictus Legend")})
	require.NoError(t, err)
	assert.Equal(t, "Invictus Legend", got.Name)
	assert.Equal(t, int64(6), got.Quantity)
	assert.Equal(t, "99.00", got.PurchasePrice.StringFixed(2))

	stored, err := c.store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("99").Equal(stored.PurchasePrice))
}

func TestProduct_SubirImagenNoPisaPrecioDeIngresoConcurrente(t *testing.T) {
	c, ci, lots := newRacingCatalog(t)
	ctx := context.Background()
	lotID := c.newLot(t)
	p, err := c.products.Create(ctx, productRequest("Phantom", 2, &lotID))
	require.NoError(t, err)

	ci.intake = func() {
		_, err := lots.Create(ctx, dto.CreateLotRequest{
			Name: "Reposición", Date: "2024-05-02",
			Items: []dto.LotItemRequest{{ProductID: p.ID, Quantity: 3, UnitCost: decimal.RequireFromString("55.10")}},
		})
		require.NoError(t, err)
	}

	got, err := c.products.UploadImage(ctx, p.ID, bytes.NewReader(pngBytes()))
	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, "55.10", got.PurchasePrice.StringFixed(2))
}

func TestProduct_BorrarConHistorialSeRechaza(t *testing.T) {
	c := newCatalog(true)
	ctx := context.Background()
	lotID := c.newLot(t)
	p, err := c.products.Create(ctx, productRequest("Boss", 2, &lotID))
	require.NoError(t, err)

	err = c.products.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := c.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)
}

func TestProduct_BorrarSinHistorialEliminaImagen(t *testing.T) {
	c := newCatalog(false)
	ctx := context.Background()
	p, err := c.products.Create(ctx, productRequest("Fame", 0, nil))
	require.NoError(t, err)

	_, err = c.products.UploadImage(ctx, p.ID, bytes.NewReader(pngBytes()))
	require.NoError(t, err)
	require.Equal(t, 1, c.images.count())

	require.NoError(t, c.products.Delete(ctx, p.ID))
	assert.Equal(t, 0, c.images.count())
	_, err = c.products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_SubirImagenReemplazaLaAnterior(t *testing.T) {
	c := newCatalog(false)
	ctx := context.Background()
	p, err := c.products.Create(ctx, productRequest("Olympéa", 0, nil))
	require.NoError(t, err)

	first, err := c.products.UploadImage(ctx, p.ID, bytes.NewReader(pngBytes()))
	require.NoError(t, err)
	require.NotNil(t, first.ImageURL)
	assert.True(t, strings.HasPrefix(*first.ImageURL, "https://cdn.test/uploads/products/"))

	second, err := c.products.UploadImage(ctx, p.ID, bytes.NewReader(gifBytes()))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(*second.ImageURL, ".gif"))
	assert.NotEqual(t, *first.ImageURL, *second.ImageURL)
	assert.Equal(t, 1, c.images.count())
}

func TestProduct_SubirImagenValidaContenido(t *testing.T) {
	c := newCatalog(false)
	ctx := context.Background()
	p, err := c.products.Create(ctx, productRequest("Scandal", 0, nil))
	require.NoError(t, err)

	_, err = c.products.UploadImage(ctx, p.ID, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.UploadImage(ctx, p.ID, strings.NewReader("%PDF-1.4 no es imagen"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := append(pngBytes(), make([]byte, usecase.MaxImageSize)...)
	_, err = c.products.UploadImage(ctx, p.ID, bytes.NewReader(big))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.UploadImage(ctx, 999, bytes.NewReader(pngBytes()))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, c.images.count())
}

func TestProduct_ListarFiltra(t *testing.T) {
	c := newCatalog(false)
	ctx := context.Background()
	brand, err := c.brands.Create(ctx, dto.BrandRequest{Name: "Chanel"})
	require.NoError(t, err)

	inactive := false
	for _, req := range []dto.CreateProductRequest{
		{Name: "Chance", BrandID: &brand.ID, SalePrice: decimal.NewFromInt(1)},
		{Name: "Coco Noir", BrandID: &brand.ID, SalePrice: decimal.NewFromInt(1), Active: &inactive},
		{Name: "Eros", SalePrice: decimal.NewFromInt(1)},
	} {
		_, err := c.products.Create(ctx, req)
		require.NoError(t, err)
	}

	active := true
	list, err := c.products.List(ctx, dto.ProductListQuery{BrandID: &brand.ID, Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chance", list[0].Name)

	list, err = c.products.List(ctx, dto.ProductListQuery{Search: "co"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Coco Noir", list[0].Name)
}

func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
}

func gifBytes() []byte {
	return append([]byte("GIF89a"), make([]byte, 32)...)
}
