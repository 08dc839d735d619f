package pocket

// CreatePocketInput represents the request body for a new pocket.
type CreatePocketInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// UpdatePocketInput mutates only the supplied fields.
type UpdatePocketInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// TransferInput represents the request body for a pocket-to-pocket transfer.
type TransferInput struct {
	SourceID    string `json:"source_id" validate:"required,uuid"`
	DestID      string `json:"dest_id" validate:"required,uuid"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description,omitempty"`
}
