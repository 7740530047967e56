package records

// Documents are the shapes decoded straight out of the DynamoDB tables. Field types are left
// loose because older rows were written by several clients; Normalize* is the only place that
// interprets them.

// OrderDocument is an item of the orders table.
type OrderDocument struct {
	OrderID    string                   `dynamodbav:"order_id"` // PK
	CustomerID string                   `dynamodbav:"customer_id,omitempty"`
	Items      []map[string]interface{} `dynamodbav:"items,omitempty"`
	Total      interface{}              `dynamodbav:"total,omitempty"`
	Status     string                   `dynamodbav:"status,omitempty"`
	CreatedAt  interface{}              `dynamodbav:"created_at,omitempty"`
	Timestamp  interface{}              `dynamodbav:"timestamp,omitempty"` // legacy name for created_at
}

// InventoryDocument is an item of the inventory table.
type InventoryDocument struct {
	ItemID       string      `dynamodbav:"item_id"` // PK
	Name         string      `dynamodbav:"name,omitempty"`
	Category     string      `dynamodbav:"category,omitempty"`
	Stock        interface{} `dynamodbav:"stock,omitempty"`
	ReorderPoint interface{} `dynamodbav:"reorder_point,omitempty"`
	Price        interface{} `dynamodbav:"price,omitempty"`
}

// CustomerDocument is an item of the customers table.
type CustomerDocument struct {
	CustomerID  string      `dynamodbav:"customer_id"` // PK
	Name        string      `dynamodbav:"name,omitempty"`
	Email       string      `dynamodbav:"email,omitempty"`
	Phone       string      `dynamodbav:"phone,omitempty"`
	TotalOrders interface{} `dynamodbav:"total_orders,omitempty"`
	TotalSpent  interface{} `dynamodbav:"total_spent,omitempty"`
	CreatedAt   interface{} `dynamodbav:"created_at,omitempty"`
	LastOrderAt interface{} `dynamodbav:"last_order_at,omitempty"`
}
