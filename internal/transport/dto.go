package transport

type CreateProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required,min=0"`
}

// ReplaceProductRequest is the PUT body. Every field must be present.
type ReplaceProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required,min=0"`
}

// PatchProductRequest is the PATCH body. Only present fields are validated.
type PatchProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price"       validate:"omitempty,min=0"`
}

// ProductUpdate is the set of fields a caller supplied for an update.
// A nil field was not supplied.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
}

func (r ReplaceProductRequest) Update() ProductUpdate {
	name, desc := r.Name, r.Description
	return ProductUpdate{Name: &name, Description: &desc, Price: r.Price}
}

func (r PatchProductRequest) Update() ProductUpdate {
	return ProductUpdate{Name: r.Name, Description: r.Description, Price: r.Price}
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SearchRequest struct {
	Query string `query:"q"    validate:"required"`
	Page  int    `query:"page"`
	Size  int    `query:"size"`
}
