package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
)

var _ repository.CatalogStore = (*CatalogRepository)(nil)

// CatalogRepository implements repository.CatalogStore on PostgreSQL.
type CatalogRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewCatalogRepository creates a new CatalogRepository instance.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *CatalogRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// WithinTransaction executes a function within a database transaction.
// Called on a transactional repository it joins the outer transaction.
func (r *CatalogRepository) WithinTransaction(ctx context.Context, fn func(txRepo *CatalogRepository) error) error {
	if r.txn != nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepo := &CatalogRepository{
		db:  r.db,
		txn: tx,
	}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddProduct inserts a product and returns its assigned id.
func (r *CatalogRepository) AddProduct(ctx context.Context, product *model.Product) (int64, error) {
	if product == nil {
		return 0, errors.New("product must not be nil")
	}

	var id int64
	err := r.WithinTransaction(ctx, func(txRepo *CatalogRepository) error {
		var err error
		id, err = txRepo.insertProduct(ctx, product)
		return err
	})
	if err != nil {
		return 0, err
	}

	product.ID = id
	return id, nil
}

func (r *CatalogRepository) insertProduct(ctx context.Context, product *model.Product) (int64, error) {
	query := `INSERT INTO products (name, description, rating, url_info, url_price)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id int64
	err = stmt.QueryRowContext(ctx, product.Name, product.Description, product.Rating, product.URLInfo, product.URLPrice).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

// RemoveProduct deletes the product and its whole price history in one transaction.
func (r *CatalogRepository) RemoveProduct(ctx context.Context, id int64) error {
	return r.WithinTransaction(ctx, func(txRepo *CatalogRepository) error {
		if _, err := txRepo.exec(ctx, `DELETE FROM price_history WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete price history: %w", err)
		}

		affected, err := txRepo.exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		if affected == 0 {
			return repository.ErrProductNotFound
		}
		return nil
	})
}

func (r *CatalogRepository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Exists reports whether a product with the given id is stored.
func (r *CatalogRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var exists bool
	if err := stmt.QueryRowContext(ctx, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query product: %w", err)
	}
	return exists, nil
}

// ListProducts returns every product ordered by id, with ratings rounded to one decimal.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT id, name, description, rating, url_info, url_price FROM products ORDER BY id`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			product model.Product
			rating  sql.NullFloat64
		)
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &rating, &product.URLInfo, &product.URLPrice); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if rating.Valid {
			rounded := model.RoundRating(rating.Float64)
			product.Rating = &rounded
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// AppendPriceSample records one observed price. A missing product surfaces as *repository.ForeignKeyError.
func (r *CatalogRepository) AppendPriceSample(ctx context.Context, productID int64, price float64, observedAt time.Time) (int64, error) {
	query := `INSERT INTO price_history (product_id, price, recorded_at)
	          VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := r.WithinTransaction(ctx, func(txRepo *CatalogRepository) error {
		stmt, err := txRepo.getExecutor().PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert statement: %w", err)
		}
		defer stmt.Close()

		err = stmt.QueryRowContext(ctx, productID, price, observedAt).Scan(&id)
		if err != nil {
			if detail, ok := foreignKeyViolation(err); ok {
				return &repository.ForeignKeyError{Detail: detail}
			}
			return fmt.Errorf("failed to insert price sample: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PriceHistory returns the product's samples, oldest first.
func (r *CatalogRepository) PriceHistory(ctx context.Context, productID int64) ([]model.PriceSample, error) {
	query := `SELECT id, product_id, price, recorded_at FROM price_history
	          WHERE product_id = $1 ORDER BY recorded_at, id`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var samples []model.PriceSample
	for rows.Next() {
		var sample model.PriceSample
		if err := rows.Scan(&sample.ID, &sample.ProductID, &sample.Price, &sample.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price sample: %w", err)
		}
		samples = append(samples, sample)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return samples, nil
}
