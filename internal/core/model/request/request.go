package request

type SignUpRequest struct {
	Username string `json:"username,omitempty" validate:"required,min=4,max=20"`
	Password string `json:"password,omitempty" validate:"required,min=8,maxbytes=72"`
}

type LoginRequest struct {
	Username string `json:"username,omitempty" validate:"required,max=20"`
	Password string `json:"password,omitempty" validate:"required,maxbytes=72"`
}

// CreateTaskRequest uses pointers so that an empty title or description is
// accepted while a missing one is not.
type CreateTaskRequest struct {
	Title       *string `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"required,max=1000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
}

type TaskFilterRequest struct {
	Status string `form:"status" json:"status,omitempty"`
	Search string `form:"search" json:"search,omitempty" validate:"max=255"`
}
