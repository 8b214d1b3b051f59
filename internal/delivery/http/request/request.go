package request

type SubmitCaptureRequest struct {
	Paths []string `json:"paths"`
}
