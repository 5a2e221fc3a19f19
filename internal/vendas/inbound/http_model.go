package inbound

type LoadRequest struct {
	FileName *string `json:"file_name"`
}

type LoadResponse struct {
	Status string `json:"status"`
	Rows   int64  `json:"rows"`
}
