package users

type Repo interface {
	GetByPhone(phone string) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]User, error)
}
