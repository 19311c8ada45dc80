package handler

type contextKey string

const (
	RoleCtxKey contextKey = "role"
	SubCtxKey  contextKey = "sub"
)
