package product

// ServiceInterface lets the cart and order packages depend on the catalog
// without binding to the concrete service.
type ServiceInterface interface {
	List(category string) ([]Product, error)
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	DecrementStock(id, qty int) error
	RestoreStock(id, qty int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(category string) ([]Product, error) {
	return s.repo.List(category)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) DecrementStock(id, qty int) error {
	return s.repo.DecrementStock(id, qty)
}

func (s *Service) RestoreStock(id, qty int) error {
	return s.repo.RestoreStock(id, qty)
}
