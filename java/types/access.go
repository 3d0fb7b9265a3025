package types

import "strings"

// IsAccessible reports whether a member with modifiers mods declared in
// declaring can be used from code in package pkg. Protected members are
// treated like package-private ones.
func IsAccessible(declaring Reflective, mods Modifiers, pkg string) bool {
	switch {
	case mods.Has(Private):
		return false
	case mods.Has(Public):
		return true
	}
	return PackageOf(declaring.Name()) == pkg
}

// PackageOf returns the package part of a binary class name.
func PackageOf(binary string) string {
	if i := strings.LastIndexByte(binary, '.'); i >= 0 {
		return binary[:i]
	}
	return ""
}
