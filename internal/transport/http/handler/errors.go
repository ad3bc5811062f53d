package handler

const (
	errInternalServer = "Internal server error"
	errIncorrectLogin = "Incorrect username or password"
	errUserExists     = "Email or username already registered"
	errTodoNotFound   = "Todo not found"
	errTokenInvalid   = "Token is invalid or expired"
)
