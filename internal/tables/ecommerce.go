package tables

import (
	"time"
)

// Customer is a row of the synthetic customers table.
type Customer struct {
	CustomerID       string    `parquet:"customer_id"`
	CustomerName     string    `parquet:"customer_name"`
	Email            string    `parquet:"email"`
	Phone            string    `parquet:"phone"`
	Address          string    `parquet:"address"`
	City             string    `parquet:"city"`
	Country          string    `parquet:"country"`
	Currency         string    `parquet:"currency"`
	RegistrationDate time.Time `parquet:"registration_date,timestamp(millisecond)"`
	Segment          string    `parquet:"segment"`
	TotalOrders      int32     `parquet:"total_orders"`
	TotalSpent       float64   `parquet:"total_spent"`

	// Nil for customers that never ordered.
	LastOrderDate *time.Time `parquet:"last_order_date,optional,timestamp(millisecond)"`
}

func (Customer) TableName() string { return "customers" }

// Product is a row of the synthetic product catalog.
type Product struct {
	ProductID     string    `parquet:"product_id"`
	ProductName   string    `parquet:"product_name"`
	Category      string    `parquet:"category"`
	Subcategory   string    `parquet:"subcategory"`
	Brand         string    `parquet:"brand"`
	Description   string    `parquet:"description"`
	BasePrice     float64   `parquet:"base_price"`
	SalePrice     float64   `parquet:"sale_price"`
	CostPrice     float64   `parquet:"cost_price"`
	Currency      string    `parquet:"currency"`
	StockQuantity int32     `parquet:"stock_quantity"`
	MinStockLevel int32     `parquet:"min_stock_level"`
	SupplierID    string    `parquet:"supplier_id"`
	IsActive      bool      `parquet:"is_active"`
	CreatedDate   time.Time `parquet:"created_date,timestamp(millisecond)"`
	LastUpdated   time.Time `parquet:"last_updated,timestamp(millisecond)"`
}

func (Product) TableName() string { return "products" }

// Order is a row of the synthetic orders table. Orders are flattened to
// one line item per row; CustomerID and ProductID reference identifiers
// generated in the same run.
type Order struct {
	OrderID       string    `parquet:"order_id"`
	CustomerID    string    `parquet:"customer_id"`
	ProductID     string    `parquet:"product_id"`
	OrderDate     time.Time `parquet:"order_date,timestamp(millisecond)"`
	OrderStatus   string    `parquet:"order_status"`
	PaymentMethod string    `parquet:"payment_method"`
	Currency      string    `parquet:"currency"`
	Quantity      int32     `parquet:"quantity"`
	UnitPrice     float64   `parquet:"unit_price"`
	Discount      float64   `parquet:"discount"`
	LineTotal     float64   `parquet:"line_total"`
	TaxAmount     float64   `parquet:"tax_amount"`
	ShippingCost  float64   `parquet:"shipping_cost"`
	TotalAmount   float64   `parquet:"total_amount"`
	CreatedAt     time.Time `parquet:"created_at,timestamp(millisecond)"`
	UpdatedAt     time.Time `parquet:"updated_at,timestamp(millisecond)"`
}

func (Order) TableName() string { return "orders" }

// FxRate is a daily exchange rate row for one currency against USD.
type FxRate struct {
	Date          time.Time `parquet:"date,timestamp(millisecond)"`
	Currency      string    `parquet:"currency"`
	RateToUSD     float64   `parquet:"rate_to_usd"`
	USDToCurrency float64   `parquet:"usd_to_currency"`
}

func (FxRate) TableName() string { return "fx_rates" }
