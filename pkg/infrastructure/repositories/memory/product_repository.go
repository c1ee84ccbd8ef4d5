package memory

import (
	"fmt"

	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/domain/repositories"
)

// ProductRepository provides in-memory catalog storage
type ProductRepository struct {
	products    []entities.Product
	productsMap map[entities.ProductName]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductName]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		if product == nil {
			return fmt.Errorf("cannot load nil product")
		}
		r.AddProduct(*product)
	}
	return nil
}

// AddProduct adds or replaces a product
func (r *ProductRepository) AddProduct(product entities.Product) {
	if index, exists := r.productsMap[product.Name]; exists {
		r.products[index] = product
		return
	}
	r.productsMap[product.Name] = len(r.products)
	r.products = append(r.products, product)
}

// GetProduct returns catalog data for a product name
func (r *ProductRepository) GetProduct(name entities.ProductName) (*entities.Product, error) {
	index, exists := r.productsMap[name]
	if !exists {
		return nil, fmt.Errorf("product not found: %s", name)
	}
	return &r.products[index], nil
}

// GetAllProducts returns all products in load order
func (r *ProductRepository) GetAllProducts() ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		products = append(products, &r.products[i])
	}
	return products, nil
}
