package models

import (
	"errors"
	"strings"
)

// Permission is a bitmask of application capabilities.
// Every named value occupies its own bit, so sets compose with | and are tested with &.
type Permission int

const (
	// PermissionFollow allows following other users.
	PermissionFollow Permission = 1 << iota
	// PermissionComment allows creating comments.
	PermissionComment
	// PermissionWrite allows creating and editing articles.
	PermissionWrite
	// PermissionModerate allows acting on other users' comments, articles and likes.
	PermissionModerate
	// PermissionAdmin allows user administration.
	PermissionAdmin
)

// PermissionNone is the empty set.
const PermissionNone Permission = 0

// ErrUnknownPermission is returned when a permission name can not be parsed.
var ErrUnknownPermission = errors.New("unknown permission")

type permissionInfo struct {
	bit   Permission
	name  string
	label string
}

// declaration order, also the order of labels
var permissionTable = []permissionInfo{
	{PermissionFollow, "FOLLOW", "Follow users"},
	{PermissionComment, "COMMENT", "Comment on posts"},
	{PermissionWrite, "WRITE", "Write articles"},
	{PermissionModerate, "MODERATE", "Moderate comments"},
	{PermissionAdmin, "ADMIN", "Administer"},
}

// AllPermissions returns every defined permission in declaration order.
func AllPermissions() []Permission {
	out := make([]Permission, 0, len(permissionTable))
	for _, p := range permissionTable {
		out = append(out, p.bit)
	}

	return out
}

// PermissionAll is the union of every defined permission.
func PermissionAll() Permission {
	var all Permission
	for _, p := range permissionTable {
		all |= p.bit
	}

	return all
}

// Has reports whether p and q share at least one bit.
func (p Permission) Has(q Permission) bool {
	return p&q != 0
}

// Labels returns the human readable labels of the bits set in p, in declaration order.
func (p Permission) Labels() []string {
	labels := make([]string, 0, len(permissionTable))
	for _, info := range permissionTable {
		if p&info.bit != 0 {
			labels = append(labels, info.label)
		}
	}

	return labels
}

// String returns the names of the bits set in p joined with "|".
func (p Permission) String() string {
	if p == PermissionNone {
		return "NONE"
	}

	names := make([]string, 0, len(permissionTable))
	for _, info := range permissionTable {
		if p&info.bit != 0 {
			names = append(names, info.name)
		}
	}

	return strings.Join(names, "|")
}

// ParsePermission parses a single permission name such as "WRITE". Matching is case-insensitive.
func ParsePermission(name string) (Permission, error) {
	for _, info := range permissionTable {
		if strings.EqualFold(info.name, strings.TrimSpace(name)) {
			return info.bit, nil
		}
	}

	return PermissionNone, ErrUnknownPermission
}
