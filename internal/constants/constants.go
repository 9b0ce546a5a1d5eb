package constants

// keys of the controller registry handed to the routes
const (
	Auth = iota
	Association
	BlogService
)
