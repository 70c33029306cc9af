// Package services holds the business rules behind the HTTP handlers:
// AuthService for registration, login and password changes, StudentService
// for profiles and ContentService for question banks and model tests.
package services
