// Package mail sends transactional email through SMTP or Amazon SES.
//
// Callers depend on Mail; NewFromDriver picks the implementation from
// configuration.
package mail
