// Package uniuri generates cryptographically secure random strings for passwords and slug suffixes.
package uniuri
