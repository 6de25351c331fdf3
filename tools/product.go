package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/toolchat/internal/telemetry"
)

type ProductDetailsInput struct {
	ProductID string `json:"productId" jsonschema_description:"The unique identifier of the product (e.g., 'prod-123')."`
}

type Product struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// inventory is the demo catalogue; it never changes at runtime.
var inventory = map[string]Product{
	"prod-123": {Name: "Quantum Laptop", Price: 1500.00, Stock: 42},
	"prod-456": {Name: "Starlight Mouse", Price: 89.99, Stock: 150},
	"prod-789": {Name: "Cosmic Keyboard", Price: 129.50, Stock: 0},
}

var ProductDetailsDefinition = ToolDefinition{
	Name:        "getProductDetails",
	Description: "Retrieve name, price and stock quantity for a product in the inventory. Use this when the user asks about an item's price, name or availability. Returns an object with an 'error' field if the product is not found.",
	InputSchema: ProductDetailsInputSchema,
	Function:    GetProductDetails,
}

var ProductDetailsInputSchema = GenerateSchema[ProductDetailsInput]()

// LookupProduct returns the catalogue entry, or a soft error payload for unknown ids.
// An out-of-stock product is still found.
func LookupProduct(id string) any {
	if p, ok := inventory[id]; ok {
		return p
	}
	return softError{Message: fmt.Sprintf("Product with ID '%s' not found.", id)}
}

func GetProductDetails(_ context.Context, input json.RawMessage) (string, error) {
	var in ProductDetailsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	telemetry.Debugf("tool", "looking up product %s", in.ProductID)
	b, err := json.Marshal(LookupProduct(in.ProductID))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
