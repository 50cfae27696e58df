package app

import (
	"context"
	"time"

	"github.com/padoca-erp/padoca-erp/internal/ledger"
	"github.com/padoca-erp/padoca-erp/internal/recipes"
	"github.com/padoca-erp/padoca-erp/internal/suppliers"
)

// DemoProducts returns the starter bakery product set. IDs are stable so the
// demo recipes can reference them.
func DemoProducts(now time.Time) []ledger.Product {
	mk := func(id, name, description string, stock, reorder, cost float64) ledger.Product {
		return ledger.Product{
			ID: id, Name: name, Description: description,
			Stock: stock, ReorderLevel: reorder, AverageCost: cost,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return []ledger.Product{
		mk("1", "Farinha de Trigo", "Farinha de trigo tipo 1, ideal para pães e bolos. Estoque em quilogramas (kg).", 22, 10, 4.50),
		mk("2", "Ovos", "Ovos brancos tipo grande. Estoque em unidades.", 48, 60, 0.80),
		mk("3", "Açúcar Refinado", "Açúcar refinado para confeitaria e massas. Estoque em quilogramas (kg).", 8, 5, 5.20),
		mk("4", "Manteiga sem Sal", "Manteiga sem sal de primeira qualidade. Estoque em gramas (g).", 2200, 1000, 0.08),
		mk("5", "Leite Integral", "Leite integral UHT. Estoque em litros (L).", 12, 10, 4.80),
		mk("6", "Fermento Biológico Seco", "Fermento biológico seco instantâneo. Estoque em gramas (g).", 450, 250, 0.03),
		mk("7", "Chocolate em Pó 50%", "Chocolate em pó 50% cacau. Estoque em gramas (g).", 1500, 800, 0.09),
	}
}

// DemoRecipes returns the starter recipe set.
func DemoRecipes(now time.Time) []recipes.Recipe {
	return []recipes.Recipe{
		{
			ID:   "rec1",
			Name: "Massa de Pão Francês",
			Ingredients: []recipes.Ingredient{
				{ProductID: "1", Quantity: 5},
				{ProductID: "6", Quantity: 0.05},
			},
			Instructions: "Misture os ingredientes secos, adicione água aos poucos e sove por 15 minutos. Deixe descansar por 1 hora. Modele os pães e deixe crescer por mais 30 minutos. Asse em forno pré-aquecido a 200°C.",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:   "rec2",
			Name: "Massa de Bolo de Chocolate",
			Ingredients: []recipes.Ingredient{
				{ProductID: "1", Quantity: 0.5},
				{ProductID: "2", Quantity: 4},
				{ProductID: "3", Quantity: 0.4},
				{ProductID: "5", Quantity: 0.2},
				{ProductID: "7", Quantity: 0.1},
			},
			Instructions: "Bata os ovos com o açúcar. Adicione o leite e os ingredientes secos peneirados. Misture bem e asse em forma untada por 40 minutos a 180°C.",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// DemoSuppliers returns the starter supplier set.
func DemoSuppliers(now time.Time) []suppliers.Supplier {
	mk := func(id, name, contact, phone, email string) suppliers.Supplier {
		return suppliers.Supplier{
			ID: id, Name: name, ContactPerson: contact, Phone: phone, Email: email,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return []suppliers.Supplier{
		mk("sup1", "Farinhas & Cia", "João Silva", "11 98765-4321", "contato@farinhascia.com"),
		mk("sup2", "Ovos Dourados Granja", "Maria Souza", "21 91234-5678", "vendas@ovosdourados.com"),
		mk("sup3", "Doce Moinho Açúcares", "Carlos Pereira", "31 95555-1234", "carlos.p@docemoinho.com"),
	}
}

// SeedDemoData loads the starter dataset into the given repositories. Meant
// for the memory driver on boot; the Postgres seed script reuses the same
// fixtures.
func SeedDemoData(ctx context.Context, stock ledger.Repository, recipeRepo recipes.Repository, supplierRepo suppliers.Repository) error {
	now := time.Now().UTC()
	err := stock.WithTx(ctx, func(ctx context.Context, tx ledger.TxRepository) error {
		products := DemoProducts(now)
		// Insert oldest first so the newest-first listing matches the fixture
		// order.
		for i := len(products) - 1; i >= 0; i-- {
			if err := tx.InsertProduct(ctx, products[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	demoRecipes := DemoRecipes(now)
	for i := len(demoRecipes) - 1; i >= 0; i-- {
		if err := recipeRepo.Insert(ctx, demoRecipes[i]); err != nil {
			return err
		}
	}
	demoSuppliers := DemoSuppliers(now)
	for i := len(demoSuppliers) - 1; i >= 0; i-- {
		if err := supplierRepo.Insert(ctx, demoSuppliers[i]); err != nil {
			return err
		}
	}
	return nil
}
