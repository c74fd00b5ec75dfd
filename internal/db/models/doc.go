// Package models contains database model definitions.
package models
