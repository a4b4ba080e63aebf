package model

// TokenManager issues and validates identity tokens.
type TokenManager interface {
	GenerateToken(subjectID string) (string, error)
	ParseToken(token string) (subjectID string, err error)
}
