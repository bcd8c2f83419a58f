package mockgen

import (
	"fmt"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/retail-lakehouse/ingestor/internal/tables"
)

var (
	segments       = []string{"retail", "wholesale", "enterprise"}
	orderStatuses  = []string{"pending", "processing", "shipped", "delivered", "cancelled"}
	paymentMethods = []string{"credit_card", "debit_card", "paypal", "bank_transfer"}
	categories     = map[string][]string{
		"Electronics": {"Phones", "Laptops", "Audio", "Accessories"},
		"Home":        {"Kitchen", "Furniture", "Decor", "Garden"},
		"Clothing":    {"Mens", "Womens", "Kids", "Shoes"},
		"Sports":      {"Fitness", "Outdoor", "Team Sports", "Cycling"},
		"Books":       {"Fiction", "Non-fiction", "Children", "Reference"},
	}

	// usdPerUnit holds the fixed reference rate for each supported
	// currency against USD.
	usdPerUnit = map[string]float64{
		"GBP": 0.75,
		"EUR": 0.85,
		"CAD": 1.25,
		"AUD": 1.35,
		"JPY": 110.0,
		"CNY": 6.45,
		"INR": 74.5,
	}

	fxCurrencies = []string{"GBP", "EUR", "CAD", "AUD", "JPY", "CNY", "INR"}
	currencies   = []string{"USD", "GBP", "EUR", "CAD", "AUD", "JPY", "CNY", "INR"}
)

// FxDays is the number of daily rate rows emitted per currency.
const FxDays = 365

// Generator produces the synthetic tables. A fixed seed yields a
// reproducible dataset.
type Generator struct {
	f   *gofakeit.Faker
	now time.Time
}

// New creates a seeded generator.
func New(seed uint64) *Generator {
	return &Generator{
		f:   gofakeit.New(seed),
		now: time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// Dataset bundles one generated run.
type Dataset struct {
	Customers []tables.Customer
	Products  []tables.Product
	Orders    []tables.Order
	FxRates   []tables.FxRate
}

// Generate produces a full dataset at the given scale. Orders reference
// only customers and products generated in the same call.
func (g *Generator) Generate(p Preset) Dataset {
	customers := g.Customers(p.Customers)
	products := g.Products(p.Products)
	return Dataset{
		Customers: customers,
		Products:  products,
		Orders:    g.Orders(p.Orders, customers, products),
		FxRates:   g.FxRates(),
	}
}

// Customers generates n customer rows.
func (g *Generator) Customers(n int) []tables.Customer {
	out := make([]tables.Customer, n)
	for i := range out {
		registered := g.f.DateRange(g.now.AddDate(-3, 0, 0), g.now.AddDate(0, 0, -30))
		c := tables.Customer{
			CustomerID:       fmt.Sprintf("CUST-%06d", i+1),
			CustomerName:     g.f.Name(),
			Email:            g.f.Email(),
			Phone:            g.f.Phone(),
			Address:          g.f.Street(),
			City:             g.f.City(),
			Country:          g.f.Country(),
			Currency:         g.f.RandomString(currencies),
			RegistrationDate: registered,
			Segment:          g.f.RandomString(segments),
			TotalOrders:      int32(g.f.Number(0, 120)),
			TotalSpent:       g.f.Price(0, 25000),
		}
		if c.TotalOrders > 0 {
			last := g.f.DateRange(registered, g.now)
			c.LastOrderDate = &last
		}
		out[i] = c
	}
	return out
}

// Products generates n product rows.
func (g *Generator) Products(n int) []tables.Product {
	// Map iteration order is randomized; sorted keys keep seeded runs
	// reproducible.
	categoryNames := make([]string, 0, len(categories))
	for name := range categories {
		categoryNames = append(categoryNames, name)
	}
	sort.Strings(categoryNames)

	out := make([]tables.Product, n)
	for i := range out {
		category := g.f.RandomString(categoryNames)
		base := g.f.Price(5, 500)
		created := g.f.DateRange(g.now.AddDate(-2, 0, 0), g.now.AddDate(0, 0, -7))
		out[i] = tables.Product{
			ProductID:     fmt.Sprintf("PROD-%05d", i+1),
			ProductName:   g.f.ProductName(),
			Category:      category,
			Subcategory:   g.f.RandomString(categories[category]),
			Brand:         g.f.Company(),
			Description:   g.f.ProductDescription(),
			BasePrice:     base,
			SalePrice:     base * g.f.Float64Range(0.7, 1.0),
			CostPrice:     base * g.f.Float64Range(0.4, 0.7),
			Currency:      "USD",
			StockQuantity: int32(g.f.Number(0, 2000)),
			MinStockLevel: int32(g.f.Number(5, 100)),
			SupplierID:    fmt.Sprintf("SUP-%04d", g.f.Number(1, 200)),
			IsActive:      g.f.Number(0, 9) > 0,
			CreatedDate:   created,
			LastUpdated:   g.f.DateRange(created, g.now),
		}
	}
	return out
}

// Orders generates n order line rows. Every row references a customer
// and a product from the supplied slices.
func (g *Generator) Orders(n int, customers []tables.Customer, products []tables.Product) []tables.Order {
	if len(customers) == 0 || len(products) == 0 {
		return nil
	}

	out := make([]tables.Order, n)
	for i := range out {
		customer := customers[g.f.Number(0, len(customers)-1)]
		product := products[g.f.Number(0, len(products)-1)]

		qty := int32(g.f.Number(1, 10))
		discount := g.f.Float64Range(0, 0.3)
		lineTotal := float64(qty) * product.SalePrice * (1 - discount)
		tax := lineTotal * 0.08
		shipping := g.f.Price(0, 25)
		ordered := g.f.DateRange(g.now.AddDate(-1, 0, 0), g.now)

		out[i] = tables.Order{
			OrderID:       fmt.Sprintf("ORD-%07d", i+1),
			CustomerID:    customer.CustomerID,
			ProductID:     product.ProductID,
			OrderDate:     ordered,
			OrderStatus:   g.f.RandomString(orderStatuses),
			PaymentMethod: g.f.RandomString(paymentMethods),
			Currency:      customer.Currency,
			Quantity:      qty,
			UnitPrice:     product.SalePrice,
			Discount:      discount,
			LineTotal:     lineTotal,
			TaxAmount:     tax,
			ShippingCost:  shipping,
			TotalAmount:   lineTotal + tax + shipping,
			CreatedAt:     ordered,
			UpdatedAt:     g.f.DateRange(ordered, g.now),
		}
	}
	return out
}

// FxRates generates one year of daily rates for every supported
// currency against USD, jittered around the fixed reference rate.
func (g *Generator) FxRates() []tables.FxRate {
	start := g.now.AddDate(0, 0, -FxDays+1)

	out := make([]tables.FxRate, 0, FxDays*len(fxCurrencies))
	for d := 0; d < FxDays; d++ {
		date := start.AddDate(0, 0, d)
		for _, cur := range fxCurrencies {
			rate := usdPerUnit[cur] * g.f.Float64Range(0.97, 1.03)
			out = append(out, tables.FxRate{
				Date:          date,
				Currency:      cur,
				RateToUSD:     rate,
				USDToCurrency: 1 / rate,
			})
		}
	}
	return out
}
