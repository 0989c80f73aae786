package models

import "github.com/mishgunpstlt/EventsApp/pkg/api"

// The wire types live in pkg/api so SDK consumers outside this module can
// use them. The server keeps referring to them through these aliases.
type (
	ApiResponse     = api.ApiResponse
	Event           = api.Event
	EventFormat     = api.EventFormat
	EventPayload    = api.EventPayload
	MyEvents        = api.MyEvents
	EventRequest    = api.EventRequest
	RequestStatus   = api.RequestStatus
	RequestType     = api.RequestType
	Role            = api.Role
	Profile         = api.Profile
	ProfileUpdate   = api.ProfileUpdate
	RsvpStatus      = api.RsvpStatus
	ValidationError = api.ValidationError
)

const (
	FormatOnline  = api.FormatOnline
	FormatOffline = api.FormatOffline

	StatusPending  = api.StatusPending
	StatusApproved = api.StatusApproved
	StatusRejected = api.StatusRejected

	RequestCreate = api.RequestCreate
	RequestEdit   = api.RequestEdit

	RoleUser  = api.RoleUser
	RoleAdmin = api.RoleAdmin

	CodeAuth             = api.CodeAuth
	CodeForbidden        = api.CodeForbidden
	CodeNotFound         = api.CodeNotFound
	CodeValidation       = api.CodeValidation
	CodeCapacityExceeded = api.CodeCapacityExceeded
	CodeInvalidState     = api.CodeInvalidState
	CodeInternal         = api.CodeInternal
)

var (
	ErrAuth             = api.ErrAuth
	ErrForbidden        = api.ErrForbidden
	ErrNotFound         = api.ErrNotFound
	ErrCapacityExceeded = api.ErrCapacityExceeded
	ErrInvalidState     = api.ErrInvalidState
	ErrNetwork          = api.ErrNetwork

	Categories = api.Categories
	Levels     = api.Levels

	SuccessResponse    = api.SuccessResponse
	ErrorResponse      = api.ErrorResponse
	PaginatedResponse  = api.PaginatedResponse
	NewValidationError = api.NewValidationError
	ErrorCode          = api.ErrorCode
	ErrorFromCode      = api.ErrorFromCode
	CanTransition      = api.CanTransition
)
