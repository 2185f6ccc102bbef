// Package utils holds small helpers shared by the storage packages.
package utils
