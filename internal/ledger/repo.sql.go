package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padoca-erp/padoca-erp/internal/platform/db"
)

// PostgresRepository persists ledger data in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type pgTx struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTx{tx: tx})
	})
}

const productColumns = `id, name, description, stock, reorder_level, average_cost, created_at, updated_at`

// ListProducts returns all products, newest first.
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC, id`, productColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches one product by ID.
func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// ListAdjustments returns history entries, newest first.
func (r *PostgresRepository) ListAdjustments(ctx context.Context, filter HistoryFilter) ([]Adjustment, error) {
	query := `SELECT id, product_id, product_name, adj_type, value, total_purchase_cost, supplier_id, expiration_date, created_at
		FROM adjustments WHERE 1=1`
	var args []any
	argPos := 1

	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		var (
			a          Adjustment
			adjType    string
			value      pgtype.Numeric
			cost       pgtype.Numeric
			supplierID pgtype.Text
			expiry     pgtype.Date
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &adjType, &value, &cost, &supplierID, &expiry, &createdAt); err != nil {
			return nil, err
		}
		a.Type = AdjustmentType(adjType)
		a.Value = numericToFloat(value)
		a.TotalPurchaseCost = numericToFloat(cost)
		if supplierID.Valid {
			a.SupplierID = supplierID.String
		}
		if expiry.Valid {
			a.ExpirationDate = expiry.Time
		}
		a.CreatedAt = createdAt.Time
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (t *pgTx) GetProductForUpdate(ctx context.Context, id string) (Product, error) {
	row := t.tx.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (t *pgTx) InsertProduct(ctx context.Context, p Product) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO products (id, name, description, stock, reorder_level, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, floatToNumeric(p.Stock), floatToNumeric(p.ReorderLevel), floatToNumeric(p.AverageCost), p.CreatedAt, p.UpdatedAt)
	return err
}

func (t *pgTx) UpdateProduct(ctx context.Context, p Product) error {
	tag, err := t.tx.Exec(ctx, `UPDATE products SET name = $2, description = $3, stock = $4, reorder_level = $5, average_cost = $6, updated_at = $7 WHERE id = $1`,
		p.ID, p.Name, p.Description, floatToNumeric(p.Stock), floatToNumeric(p.ReorderLevel), floatToNumeric(p.AverageCost), p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (t *pgTx) InsertAdjustment(ctx context.Context, a Adjustment) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO adjustments (id, product_id, product_name, adj_type, value, total_purchase_cost, supplier_id, expiration_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.ProductID, a.ProductName, string(a.Type), floatToNumeric(a.Value), floatToNumeric(a.TotalPurchaseCost),
		pgtype.Text{String: a.SupplierID, Valid: a.SupplierID != ""},
		pgtype.Date{Time: a.ExpirationDate, Valid: !a.ExpirationDate.IsZero()},
		a.CreatedAt)
	return err
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p         Product
		stock     pgtype.Numeric
		reorder   pgtype.Numeric
		avgCost   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &stock, &reorder, &avgCost, &createdAt, &updatedAt); err != nil {
		return Product{}, err
	}
	p.Stock = numericToFloat(stock)
	p.ReorderLevel = numericToFloat(reorder)
	p.AverageCost = numericToFloat(avgCost)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return p, nil
}

func numericToFloat(n pgtype.Numeric) float64 {
	f, _ := n.Float64Value()
	return f.Float64
}

func floatToNumeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(fmt.Sprintf("%f", f))
	return n
}
