package book

type UpsertBookReq struct {
	Name         string `json:"name" validate:"required,max=500"`
	Description  string `json:"description" validate:"max=1000"`
	Shelf        string `json:"shelf" validate:"max=50"`
	Department   string `json:"department" validate:"max=100"`
	AssignedYear *int   `json:"assigned_year" validate:"omitempty,gte=1,lte=4"`
	Image        string `json:"image"`
}
