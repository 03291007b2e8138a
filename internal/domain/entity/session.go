package entity

import "fmt"

type Role string

const (
	RoleProducer Role = "PRODUCER"
	RoleBuyer    Role = "BUYER"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleProducer, RoleBuyer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}
