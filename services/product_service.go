package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	Page            int    `json:"page"`
	PageSize        int    `json:"page_size"`
	Search          string `json:"search,omitempty"`
	IncludeInactive bool   `json:"include_inactive,omitempty"`
}

func (o ProductListOptions) cacheKey() string {
	return fmt.Sprintf("%slist:%d:%d:%t:%s", productKeyPrefix, o.Page, o.PageSize, o.IncludeInactive, o.Search)
}

// ListProducts returns one page of products ordered by name. Storefront listings only see active products.
func (ps *ProductService) ListProducts(ctx context.Context, opts ProductListOptions) (*database.Page[tables.Product], error) {
	if cached, ok := getJSON[database.Page[tables.Product]](ctx, ps.cacheService, opts.cacheKey()); ok {
		return cached, nil
	}

	query := database.Query[tables.Product](ps.db).Search("name", opts.Search)
	if !opts.IncludeInactive {
		query = query.Where("active", true)
	}
	query = query.OrderBy("name", database.ASC).OrderBy("id", database.ASC)

	page, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products", gecho.Field("error", err))
		return nil, err
	}

	setJSON(ctx, ps.cacheService, opts.cacheKey(), page, ps.cacheService.productTTL())
	return page, nil
}

// GetProduct returns a product by id. With activeOnly an inactive product is reported as missing.
func (ps *ProductService) GetProduct(ctx context.Context, id int64, activeOnly bool) (*tables.Product, error) {
	key := fmt.Sprintf("%sid:%d", productKeyPrefix, id)

	product, ok := getJSON[tables.Product](ctx, ps.cacheService, key)
	if !ok {
		var err error
		product, err = database.Query[tables.Product](ps.db).Where("id", id).First(ctx)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, lib.NewNotFoundError("product")
		}
		setJSON(ctx, ps.cacheService, key, product, ps.cacheService.productTTL())
	}

	if activeOnly && !product.Active {
		return nil, lib.NewNotFoundError("product")
	}
	return product, nil
}

func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	product := &tables.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       lib.Money(*req.Price),
		Active:      true,
		Image:       req.Image,
	}
	if req.Price.IsNegative() {
		return nil, lib.NewValidationError("price must not be negative")
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if _, err := ps.db.NewInsert().Model(product).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err, "product")
	}

	ps.cacheService.InvalidateProducts(ctx)
	ps.logger.Info("Product created", gecho.Field("product_id", product.ID), gecho.Field("name", product.Name))
	return product, nil
}

func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, req *structs.ProductUpdateRequest) (*tables.Product, error) {
	q := ps.db.NewUpdate().Model((*tables.Product)(nil)).Where("id = ?", id).Set("updated_at = ?", time.Now())

	if req.Name != nil {
		q = q.Set("name = ?", *req.Name)
	}
	if req.Description != nil {
		q = q.Set("description = ?", *req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, lib.NewValidationError("price must not be negative")
		}
		q = q.Set("price = ?", lib.Money(*req.Price))
	}
	if req.Stock != nil {
		q = q.Set("stock = ?", *req.Stock)
	}
	if req.Active != nil {
		q = q.Set("active = ?", *req.Active)
	}
	if req.Image != nil {
		q = q.Set("image = ?", *req.Image)
	}

	product := new(tables.Product)
	if err := q.Returning("*").Scan(ctx, product); err != nil {
		return nil, lib.MapPgError(err, "product")
	}

	ps.cacheService.InvalidateProducts(ctx)
	return product, nil
}

// DeleteProduct removes a product. Products referenced by an order line cannot be deleted.
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	res, err := ps.db.NewDelete().Model((*tables.Product)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lib.NewNotFoundError("product")
	}

	ps.cacheService.InvalidateProducts(ctx)
	ps.logger.Info("Product deleted", gecho.Field("product_id", id))
	return nil
}
