// Package clock provides the time source used by usecases and repositories.
//
// Depend on Clocker rather than time.Now so delivery timestamps and token
// expiry can be pinned in tests with Fixed.
package clock
