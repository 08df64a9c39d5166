package dto

// CreateCitraRequest describes one subject in a bulk insert.
type CreateCitraRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	CourseCode string `json:"courseCode" validate:"required,max=32"`
	CitraType  string `json:"citraType" validate:"required,max=100"`
	Faculty    string `json:"faculty" validate:"required,max=100"`
}

// AddCitraListRequest is the admin bulk insert payload.
type AddCitraListRequest struct {
	CitraList []CreateCitraRequest `json:"citraList"`
}

// AddCitraListResponse reports how many subjects were inserted.
type AddCitraListResponse struct {
	Message       string `json:"message"`
	InsertedCount int    `json:"insertedCount"`
}
