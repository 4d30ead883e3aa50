package request

type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,max=254,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UserUpdateRequest is a partial update; nil fields are left alone.
type UserUpdateRequest struct {
	Username  *string `json:"username" validate:"omitnil,max=150,username"`
	Email     *string `json:"email" validate:"omitnil,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string `json:"last_name" validate:"omitnil,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitnil,oneof=user moderator admin"`
}
