// Package validator validates request structs and reports field errors keyed
// by snake_case field names.
package validator
