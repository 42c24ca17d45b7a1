package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"

	// maxBodyBytes caps request bodies. No endpoint takes anything close
	// to this.
	maxBodyBytes = 1 << 20
)
