package auth

// Role is the back-office role carried in an operator token.
type Role string

const (
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
)

func (r Role) IsValid() bool {
	return r == RoleOperator || r == RoleManager
}

// Claim keys of an operator access token.
const (
	ClaimSubject = "sub"
	ClaimRole    = "role"
	ClaimType    = "type"
)
