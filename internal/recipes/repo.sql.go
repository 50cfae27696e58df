package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padoca-erp/padoca-erp/internal/platform/db"
)

// PostgresRepository persists recipes in PostgreSQL across two tables:
// recipes and recipe_ingredients.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, instructions, created_at, updated_at FROM recipes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	index := map[string]int{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		index[rec.ID] = len(recipes)
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return recipes, nil
	}

	ingRows, err := r.pool.Query(ctx, `SELECT recipe_id, product_id, quantity FROM recipe_ingredients ORDER BY recipe_id, position`)
	if err != nil {
		return nil, err
	}
	defer ingRows.Close()
	for ingRows.Next() {
		var (
			recipeID  string
			productID string
			quantity  pgtype.Numeric
		)
		if err := ingRows.Scan(&recipeID, &productID, &quantity); err != nil {
			return nil, err
		}
		if i, ok := index[recipeID]; ok {
			recipes[i].Ingredients = append(recipes[i].Ingredients, Ingredient{
				ProductID: productID,
				Quantity:  numericToFloat(quantity),
			})
		}
	}
	return recipes, ingRows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Recipe, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, instructions, created_at, updated_at FROM recipes WHERE id = $1`, id)
	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Recipe{}, ErrRecipeNotFound
		}
		return Recipe{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT product_id, quantity FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY position`, id)
	if err != nil {
		return Recipe{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID string
			quantity  pgtype.Numeric
		)
		if err := rows.Scan(&productID, &quantity); err != nil {
			return Recipe{}, err
		}
		rec.Ingredients = append(rec.Ingredients, Ingredient{ProductID: productID, Quantity: numericToFloat(quantity)})
	}
	return rec, rows.Err()
}

func (r *PostgresRepository) Insert(ctx context.Context, rec Recipe) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO recipes (id, name, instructions, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, rec.Name, rec.Instructions, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return err
		}
		return insertIngredients(ctx, tx, rec)
	})
}

func (r *PostgresRepository) Update(ctx context.Context, rec Recipe) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE recipes SET name = $2, instructions = $3, updated_at = $4 WHERE id = $1`,
			rec.ID, rec.Name, rec.Instructions, rec.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRecipeNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rec.ID); err != nil {
			return err
		}
		return insertIngredients(ctx, tx, rec)
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func insertIngredients(ctx context.Context, tx pgx.Tx, rec Recipe) error {
	for i, ing := range rec.Ingredients {
		_, err := tx.Exec(ctx, `INSERT INTO recipe_ingredients (recipe_id, position, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			rec.ID, i, ing.ProductID, floatToNumeric(ing.Quantity))
		if err != nil {
			return err
		}
	}
	return nil
}

func scanRecipe(row pgx.Row) (Recipe, error) {
	var (
		rec       Recipe
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Instructions, &createdAt, &updatedAt); err != nil {
		return Recipe{}, err
	}
	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time
	return rec, nil
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
