package models

import (
	"fmt"
	"strings"
)

// Role is a normalized draft position.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleADC     Role = "ADC"
	RoleSupport Role = "SUPPORT"
)

var validRoles = map[Role]bool{
	RoleTop:     true,
	RoleJungle:  true,
	RoleMid:     true,
	RoleADC:     true,
	RoleSupport: true,
}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !validRoles[r] {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// Valid reports whether the role is one of the known positions.
func (r Role) Valid() bool {
	return validRoles[r]
}

// Region is a platform shard identifier, kept for request context.
type Region string

const (
	RegionNA   Region = "NA"
	RegionEUW  Region = "EUW"
	RegionEUNE Region = "EUNE"
	RegionKR   Region = "KR"
	RegionBR   Region = "BR"
	RegionJP   Region = "JP"
	RegionLAN  Region = "LAN"
	RegionLAS  Region = "LAS"
	RegionOCE  Region = "OCE"
	RegionRU   Region = "RU"
	RegionTR   Region = "TR"
)

// TeamSide identifies which side of the map a team played.
type TeamSide string

const (
	SideBlue TeamSide = "BLUE"
	SideRed  TeamSide = "RED"
)
