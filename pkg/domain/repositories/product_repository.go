package repositories

import "github.com/vsinha/boxopt/pkg/domain/entities"

// ProductRepository provides access to catalog product data
type ProductRepository interface {
	GetProduct(name entities.ProductName) (*entities.Product, error)
	GetAllProducts() ([]*entities.Product, error)
	LoadProducts(products []*entities.Product) error
}
