package handler

const (
	errInternalServer = "Internal server error"
	errNotFound       = "Not found"
	errBadGateway     = "Bad gateway"
)
