package user

import "golang.org/x/crypto/bcrypt"

// ServiceInterface is implemented by *Service and by test doubles in
// other packages.
type ServiceInterface interface {
	GetByID(id int) (User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
	Update(id int, u User) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Update(id int, u User) (User, error) {
	return s.repo.Update(id, u)
}
