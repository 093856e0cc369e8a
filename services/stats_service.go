package services

import (
	"ashtray_server/database"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

const recentOrdersLimit = 5

type StatsService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewStatsService(logger *gecho.Logger, db *database.DB) *StatsService {
	return &StatsService{
		logger: logger,
		db:     db,
	}
}

// Dashboard computes the admin summary. Every figure is derived on read.
func (ss *StatsService) Dashboard(ctx context.Context) (*structs.DashboardStats, error) {
	stats := &structs.DashboardStats{
		OrdersByStatus:   []structs.StatusCount{},
		OrdersLast30Days: []structs.DailyOrders{},
		TotalSales:       decimal.Zero,
	}

	var err error
	if stats.Products.Total, err = database.Query[tables.Product](ss.db).Count(ctx); err != nil {
		return nil, err
	}
	if stats.Products.Active, err = database.Query[tables.Product](ss.db).Where("active", true).Count(ctx); err != nil {
		return nil, err
	}

	err = ss.db.NewSelect().
		Model((*tables.Order)(nil)).
		ColumnExpr("o.status AS status").
		ColumnExpr("count(*) AS count").
		Group("o.status").
		OrderExpr("o.status ASC").
		Scan(ctx, &stats.OrdersByStatus)
	if err != nil {
		ss.logger.Error("Failed to count orders by status", gecho.Field("error", err))
		return nil, err
	}

	stats.RecentOrders, err = database.Query[tables.Order](ss.db).
		Relation("Customer").
		OrderBy("o.order_date", database.DESC).
		Limit(recentOrdersLimit).
		All(ctx)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)
	err = ss.db.NewSelect().
		Model((*tables.Order)(nil)).
		ColumnExpr("date_trunc('day', o.order_date) AS date").
		ColumnExpr("count(*) AS count").
		ColumnExpr("coalesce(sum(o.total_amount), 0) AS revenue").
		Where("o.order_date >= ?", since).
		Group("date").
		OrderExpr("date ASC").
		Scan(ctx, &stats.OrdersLast30Days)
	if err != nil {
		ss.logger.Error("Failed to aggregate daily orders", gecho.Field("error", err))
		return nil, err
	}

	if stats.CustomersWithEmail, err = database.Query[tables.Customer](ss.db).WhereRaw("email IS NOT NULL").Count(ctx); err != nil {
		return nil, err
	}

	err = ss.db.NewSelect().
		Model((*tables.Order)(nil)).
		ColumnExpr("coalesce(sum(o.total_amount), 0)").
		Where("o.status != ?", tables.OrderStatusCancelled).
		Scan(ctx, &stats.TotalSales)
	if err != nil {
		ss.logger.Error("Failed to sum sales", gecho.Field("error", err))
		return nil, err
	}

	return stats, nil
}
