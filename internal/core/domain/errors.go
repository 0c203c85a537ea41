package domain

import "errors"

// Common domain errors
var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// Event errors
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventFull             = errors.New("event is full")
	ErrEventHasRegistrations = errors.New("event has active registrations")
)

// Registration errors
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrAlreadyCancelled     = errors.New("registration is already cancelled")
	ErrNotCancelled         = errors.New("registration is not cancelled")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Newsletter errors
var (
	ErrAlreadySubscribed = errors.New("email is already subscribed")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrCampaignSent      = errors.New("campaign has already been sent")
)

// Storage errors
var (
	ErrBlobNotFound  = errors.New("stored file not found")
	ErrStorageUpload = errors.New("failed to store uploaded file")
)
