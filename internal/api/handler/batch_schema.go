package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createBatchRequest struct {
	ChemicalName string `json:"chemical_name" validate:"required"`
	LocationName string `json:"location_name" validate:"required"`
}

type transferBatchRequest struct {
	NewOwner    string `json:"new_owner"    validate:"required"`
	NewLocation string `json:"new_location" validate:"required"`
}

type dispatchResponse struct {
	Message string `json:"message"`
	TxHash  string `json:"tx_hash"`
}

// batchResponse renders the fetched ledger record verbatim. The ID is a
// decimal string: uint256 does not fit JSON numbers.
type batchResponse struct {
	ID           string `json:"id"`
	ChemicalName string `json:"chemical_name"`
	Location     string `json:"location"`
	Owner        string `json:"owner"`
	Completed    bool   `json:"completed"`
}

type dashboardResponse struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Panels   []string `json:"panels"`
}

type locationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
