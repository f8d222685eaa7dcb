package db

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Scope narrows a query. List filters are scopes so the page query and the
// count query share one predicate.
type Scope = func(*gorm.DB) *gorm.DB

// PageQuery describes one page of a filtered list.
type PageQuery struct {
	Filter Scope
	// Project is applied to the row query only, e.g. to select computed columns.
	Project Scope
	Order   string
	Offset  int
	Limit   int
}

// FindPage loads one page of rows into dest and counts every matching row.
// Both queries run concurrently; the first failure cancels the other.
func FindPage[T any](ctx context.Context, conn *gorm.DB, q PageQuery, dest *[]T) (int64, error) {
	filter := q.Filter
	if filter == nil {
		filter = func(db *gorm.DB) *gorm.DB { return db }
	}

	var total int64
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var model T
		return conn.WithContext(gctx).Model(&model).Scopes(filter).Count(&total).Error
	})
	g.Go(func() error {
		rows := conn.WithContext(gctx).Model(new(T)).Scopes(filter)
		if q.Project != nil {
			rows = rows.Scopes(q.Project)
		}
		if q.Order != "" {
			rows = rows.Order(q.Order)
		}
		return rows.Offset(q.Offset).Limit(q.Limit).Find(dest).Error
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}
